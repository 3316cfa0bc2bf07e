package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererKey identifies renderers that produce identical output
type rendererKey struct {
	style    string
	width    int
	emoji    bool
	newlines bool
	tables   bool
}

func keyFor(opts Options) rendererKey {
	return rendererKey{
		style:    opts.Style,
		width:    opts.Width,
		emoji:    opts.EnableEmoji,
		newlines: opts.PreserveNewLines,
		tables:   opts.TableWrap,
	}
}

// renderers maps a rendererKey to a *sync.Pool of idle TermRenderers.
// A TermRenderer must not render concurrently, so each call borrows one.
var renderers sync.Map

func poolFor(opts Options) *sync.Pool {
	key := keyFor(opts)
	if p, ok := renderers.Load(key); ok {
		return p.(*sync.Pool)
	}
	p, _ := renderers.LoadOrStore(key, &sync.Pool{})
	return p.(*sync.Pool)
}

// borrow hands out an idle renderer for opts, building one when the pool is
// empty. The returned release func puts it back.
func borrow(opts Options) (*glamour.TermRenderer, func(), error) {
	pool := poolFor(opts)
	r, ok := pool.Get().(*glamour.TermRenderer)
	if !ok {
		var err error
		if r, err = newRenderer(opts); err != nil {
			return nil, func() {}, err
		}
	}
	return r, func() { pool.Put(r) }, nil
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	settings := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}
	if opts.EnableEmoji {
		settings = append(settings, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		settings = append(settings, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(settings...)
}

// ClearCache drops all pooled renderers
func ClearCache() {
	renderers.Range(func(k, _ any) bool {
		renderers.Delete(k)
		return true
	})
}

// CacheSize returns the number of distinct option sets seen
func CacheSize() int {
	n := 0
	renderers.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
