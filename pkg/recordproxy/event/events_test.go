package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
)

type widget struct {
	*event.Events
	name string
}

func newWidget(name string) *widget {
	w := &widget{name: name}
	w.Events = event.NewEvents(w)
	return w
}

type marker struct{ label string }

type call struct {
	this any
	args []any
}

func recorder(calls *[]call) *event.Callback {
	return event.NewCallback(func(this any, args ...any) {
		*calls = append(*calls, call{this: this, args: args})
	})
}

func TestOnTrigger(t *testing.T) {
	w := newWidget("w")
	var calls []call
	cb := recorder(&calls)

	got := w.On("change", cb, nil)
	assert.Same(t, w, got)

	w.Trigger("change", 1, "two")
	require.Len(t, calls, 1)
	assert.Same(t, w, calls[0].this, "receiver defaults to owner")
	assert.Equal(t, []any{1, "two"}, calls[0].args)

	w.Trigger("other")
	assert.Len(t, calls, 1)
}

func TestOnWithContext(t *testing.T) {
	w := newWidget("w")
	ctx := &marker{"ctx"}
	var calls []call
	w.On("change", recorder(&calls), ctx)
	w.Trigger("change")
	require.Len(t, calls, 1)
	assert.Same(t, ctx, calls[0].this)
}

func TestOnIgnoresNilCallbackAndEmptyName(t *testing.T) {
	w := newWidget("w")
	w.On("change", nil, nil)
	w.On("", event.NewCallback(func(any, ...any) {}), nil)
	assert.False(t, w.HasListeners())
}

func TestCompoundNames(t *testing.T) {
	w := newWidget("w")
	var calls []call
	cb := recorder(&calls)
	w.On("change:name  change:age", cb, nil)
	assert.Equal(t, []string{"change:age", "change:name"}, w.EventNames())

	w.Trigger("change:name change:age", "x")
	assert.Len(t, calls, 2)

	w.Off("change:name", nil, nil)
	assert.Equal(t, []string{"change:age"}, w.EventNames())
}

func TestAllChannel(t *testing.T) {
	w := newWidget("w")
	var calls []call
	w.On(event.All, recorder(&calls), nil)

	w.Trigger("boo", 1)
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"boo", 1}, calls[0].args)

	calls = nil
	w.Trigger(event.All, 1)
	assert.Len(t, calls, 2, "all listeners fire for both roles when all itself is triggered")
}

func TestNamedBeforeAll(t *testing.T) {
	w := newWidget("w")
	var order []string
	w.On(event.All, event.NewCallback(func(any, ...any) { order = append(order, "all") }), nil)
	w.On("change", event.NewCallback(func(any, ...any) { order = append(order, "change") }), nil)
	w.Trigger("change")
	assert.Equal(t, []string{"change", "all"}, order)
}

func TestOff(t *testing.T) {
	ctx1 := &marker{"one"}
	ctx2 := &marker{"two"}

	setup := func() (*widget, *event.Callback, *event.Callback, *int, *int) {
		w := newWidget("w")
		var n1, n2 int
		cb1 := event.NewCallback(func(any, ...any) { n1++ })
		cb2 := event.NewCallback(func(any, ...any) { n2++ })
		w.On("a", cb1, ctx1)
		w.On("b", cb1, ctx2)
		w.On("a", cb2, ctx2)
		w.On("b", cb2, nil)
		return w, cb1, cb2, &n1, &n2
	}

	t.Run("by event", func(t *testing.T) {
		w, _, _, n1, n2 := setup()
		w.Off("a", nil, nil)
		w.Trigger("a b")
		assert.Equal(t, 1, *n1)
		assert.Equal(t, 1, *n2)
	})

	t.Run("by callback", func(t *testing.T) {
		w, cb1, _, n1, n2 := setup()
		w.Off("", cb1, nil)
		w.Trigger("a b")
		assert.Equal(t, 0, *n1)
		assert.Equal(t, 2, *n2)
	})

	t.Run("by context", func(t *testing.T) {
		w, _, _, n1, n2 := setup()
		w.Off("", nil, ctx2)
		w.Trigger("a b")
		assert.Equal(t, 1, *n1)
		assert.Equal(t, 1, *n2)
	})

	t.Run("by callback and context", func(t *testing.T) {
		w, cb1, _, n1, n2 := setup()
		w.Off("", cb1, ctx2)
		w.Trigger("a b")
		assert.Equal(t, 1, *n1)
		assert.Equal(t, 2, *n2)
	})

	t.Run("everything", func(t *testing.T) {
		w, _, _, n1, n2 := setup()
		w.Off("", nil, nil)
		w.Trigger("a b")
		assert.Zero(t, *n1)
		assert.Zero(t, *n2)
		assert.False(t, w.HasListeners())
	})

	t.Run("unknown criteria remove nothing", func(t *testing.T) {
		w, _, _, _, _ := setup()
		w.Off("nope", nil, nil)
		w.Off("", event.NewCallback(func(any, ...any) {}), nil)
		w.Off("", nil, &marker{"stranger"})
		assert.Equal(t, 2, w.ListenerCount("a"))
		assert.Equal(t, 2, w.ListenerCount("b"))
	})
}

func TestOffAllRemovesOnlyWildcardListeners(t *testing.T) {
	w := newWidget("w")
	w.On(event.All, event.NewCallback(func(any, ...any) {}), &marker{"relay"})
	w.On("change", event.NewCallback(func(any, ...any) {}), nil)

	w.Off(event.All, nil, nil)
	assert.Equal(t, []string{"change"}, w.EventNames())
}

func TestOnce(t *testing.T) {
	w := newWidget("w")
	var calls []call
	cb := recorder(&calls)
	w.Once("change", cb, nil)

	w.Trigger("change", 1)
	w.Trigger("change", 2)
	require.Len(t, calls, 1)
	assert.Same(t, w, calls[0].this)
	assert.False(t, w.HasListeners())
}

func TestOnceCompoundNamesFireIndependently(t *testing.T) {
	w := newWidget("w")
	n := 0
	w.Once("a b", event.NewCallback(func(any, ...any) { n++ }), nil)
	w.Trigger("a")
	w.Trigger("a")
	w.Trigger("b")
	assert.Equal(t, 2, n)
}

func TestOnceRemovableByOriginalCallback(t *testing.T) {
	w := newWidget("w")
	n := 0
	cb := event.NewCallback(func(any, ...any) { n++ })
	w.Once("change", cb, nil)
	w.Off("", cb, nil)
	w.Trigger("change")
	assert.Zero(t, n)
}

func TestTriggerUsesSnapshot(t *testing.T) {
	w := newWidget("w")
	var order []string
	late := event.NewCallback(func(any, ...any) { order = append(order, "late") })
	second := event.NewCallback(func(any, ...any) { order = append(order, "second") })
	first := event.NewCallback(func(any, ...any) {
		order = append(order, "first")
		w.Off("change", second, nil)
		w.On("change", late, nil)
	})
	w.On("change", first, nil)
	w.On("change", second, nil)

	w.Trigger("change")
	assert.Equal(t, []string{"first", "second"}, order)

	order = nil
	w.Trigger("change")
	assert.Equal(t, []string{"first", "late"}, order)
	assert.Equal(t, 3, w.ListenerCount("change"))
}

func TestListenTo(t *testing.T) {
	listener := newWidget("listener")
	a := newWidget("a")
	b := newWidget("b")
	var calls []call
	cb := recorder(&calls)

	listener.ListenTo(a, "change", cb)
	listener.ListenTo(b, "change", cb)
	assert.Len(t, listener.ListeningTo(), 2)

	a.Trigger("change")
	require.Len(t, calls, 1)
	assert.Same(t, listener, calls[0].this, "listenTo callbacks run with the listener as receiver")

	listener.StopListening(a, "", nil)
	a.Trigger("change")
	b.Trigger("change")
	assert.Len(t, calls, 2)
	assert.Len(t, listener.ListeningTo(), 1)

	listener.StopListening(nil, "", nil)
	b.Trigger("change")
	assert.Len(t, calls, 2)
	assert.Empty(t, listener.ListeningTo())
}

func TestStopListeningLeavesOtherListeners(t *testing.T) {
	listener := newWidget("listener")
	a := newWidget("a")
	n := 0
	a.On("change", event.NewCallback(func(any, ...any) { n++ }), nil)
	listener.ListenTo(a, "change", event.NewCallback(func(any, ...any) { n += 10 }))

	listener.StopListening(a, "change", nil)
	a.Trigger("change")
	assert.Equal(t, 1, n)
}

func TestListenToOnce(t *testing.T) {
	listener := newWidget("listener")
	a := newWidget("a")
	n := 0
	listener.ListenToOnce(a, "change", event.NewCallback(func(any, ...any) { n++ }))
	a.Trigger("change")
	a.Trigger("change")
	assert.Equal(t, 1, n)
	assert.False(t, a.HasListeners())
}

func TestHasListener(t *testing.T) {
	w := newWidget("w")
	token := &marker{"token"}
	w.On(event.All, event.NewCallback(func(any, ...any) {}), token)

	assert.True(t, w.HasListener(event.All, token))
	assert.True(t, w.HasListener("", token))
	assert.True(t, w.HasListener("", nil))
	assert.False(t, w.HasListener("change", token))
	assert.False(t, w.HasListener("", &marker{"token"}))
}

func TestNewEventsWithoutOwner(t *testing.T) {
	e := event.NewEvents(nil)
	var calls []call
	got := e.On("x", recorder(&calls), nil)
	assert.Same(t, e, got)
	e.Trigger("x")
	require.Len(t, calls, 1)
	assert.Same(t, e, calls[0].this)
}

func TestSameIdentity(t *testing.T) {
	m := &marker{"m"}
	mapA := map[string]int{"a": 1}
	mapB := map[string]int{"a": 1}
	shared := []int{1, 2}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", m, nil, false},
		{"same pointer", m, m, true},
		{"equal but distinct pointers", &marker{"m"}, &marker{"m"}, false},
		{"same map", mapA, mapA, true},
		{"distinct maps", mapA, mapB, false},
		{"equal strings", "x", "x", true},
		{"different types", 1, "1", false},
		{"uncomparable struct sharing a slice", viewCtx{"v", shared}, viewCtx{"v", shared}, true},
		{"uncomparable struct with distinct slices", viewCtx{"v", []int{1}}, viewCtx{"v", []int{1}}, false},
		{"uncomparable struct with different names", viewCtx{"a", shared}, viewCtx{"b", shared}, false},
		{"slice prefix is not the same slice", shared, shared[:1], false},
		{"arrays of contexts", [1]viewCtx{{"v", shared}}, [1]viewCtx{{"v", shared}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, event.SameIdentity(tt.a, tt.b))
		})
	}
}

type viewCtx struct {
	name string
	ids  []int
}

func TestOffByUncomparableContext(t *testing.T) {
	e := event.NewEvents(nil)
	ids := []int{1, 2}
	calls := 0
	cb := event.NewCallback(func(any, ...any) { calls++ })

	e.On("change", cb, viewCtx{"sidebar", ids})
	e.Off("", nil, viewCtx{"sidebar", ids})
	e.Trigger("change")

	assert.Zero(t, calls)
	assert.False(t, e.HasListeners())
}

func TestCallbackMatches(t *testing.T) {
	orig := event.NewCallback(func(any, ...any) {})
	wrapped := event.Wrap(orig, func(any, ...any) {})
	other := event.NewCallback(func(any, ...any) {})

	assert.True(t, orig.Matches(orig))
	assert.True(t, wrapped.Matches(orig))
	assert.True(t, wrapped.Matches(wrapped))
	assert.False(t, orig.Matches(wrapped))
	assert.False(t, wrapped.Matches(other))
	assert.Same(t, orig, wrapped.Original())

	var nilCb *event.Callback
	assert.NotPanics(t, func() { nilCb.Call(nil) })
	assert.False(t, nilCb.Matches(orig))
}
