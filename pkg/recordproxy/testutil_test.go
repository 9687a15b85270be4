package recordproxy_test

import (
	"testing"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// invocation is one captured listener call.
type invocation struct {
	this any
	args []any
}

// spy is a callback that records its invocations.
type spy struct {
	calls []invocation
	cb    *event.Callback
}

func newSpy() *spy {
	s := &spy{}
	s.cb = event.NewCallback(func(this any, args ...any) {
		s.calls = append(s.calls, invocation{this: this, args: args})
	})
	return s
}

func (s *spy) count() int { return len(s.calls) }

func (s *spy) last() invocation {
	if len(s.calls) == 0 {
		return invocation{}
	}
	return s.calls[len(s.calls)-1]
}

// ctxValue is a listener context with identity.
type ctxValue struct{ label string }

// models builds a record, a proxy of it and a proxy of that proxy.
type models struct {
	proxied    *record.Record
	proxy      *recordproxy.Proxy
	proxyProxy *recordproxy.Proxy
}

func newModels(t *testing.T, opts ...recordproxy.Option) models {
	t.Helper()
	proxied := record.New(record.Attrs{"name": "Anna", "age": 23})
	proxy := recordproxy.Extend(proxied, opts...).New()
	proxyProxy := recordproxy.Extend(proxy, opts...).New()
	return models{proxied: proxied, proxy: proxy, proxyProxy: proxyProxy}
}

// pair is an upstream model with the proxy directly in front of it.
type pair struct {
	name    string
	proxied record.Model
	proxy   *recordproxy.Proxy
}

// pairs returns proxied/proxy and proxy/proxyProxy, so behaviour can be
// checked one level and two levels deep.
func pairs(t *testing.T) []func() pair {
	return []func() pair{
		func() pair {
			m := newModels(t)
			return pair{name: "proxy", proxied: m.proxied, proxy: m.proxy}
		},
		func() pair {
			m := newModels(t)
			return pair{name: "proxyProxy", proxied: m.proxy, proxy: m.proxyProxy}
		},
	}
}
