package tree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
)

//////////////////////////////////////////////////

// KeyFunc derives the sort key of a child node.
type KeyFunc func(n *Node) (Key, error)

var (
	MissingTitle = errors.New("node has no usable title")
	KeyPanic     = errors.New("key function panicked")
)

// KeyError reports a failure to build the sort key of one child.
type KeyError struct {
	Index int
	Err   error
}

func (e *KeyError) Error() string {
	return "sort key of child " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// TitleKey is the default KeyFunc: the natural-sort key of the node's title.
func TitleKey(n *Node) (Key, error) {
	if n == nil {
		return nil, MissingTitle
	}

	return NaturalKey(n.Title), nil
}

// fallbackKey never fails; nodes without a title sort as an empty title.
func fallbackKey(n *Node) Key {
	if n == nil {
		return NaturalKey("")
	}

	return NaturalKey(n.Title)
}

//////////////////////////////////////////////////

type sortConfig struct {
	key        KeyFunc
	descending bool
	logger     *slog.Logger
}

type SortOption func(cfg *sortConfig)

func WithKeyFunc(fn KeyFunc) SortOption {
	return func(cfg *sortConfig) {
		cfg.key = fn
	}
}

func Descending(descending bool) SortOption {
	return func(cfg *sortConfig) {
		cfg.descending = descending
	}
}

func WithLogger(logger *slog.Logger) SortOption {
	return func(cfg *sortConfig) {
		cfg.logger = logger
	}
}

// Sort reorders the immediate children of n by key (TitleKey unless
// WithKeyFunc is given) and returns n. The sort is stable, also when
// descending.
//
// If any key cannot be built, the failure is logged and the children are
// ordered by title instead; Sort itself never fails. Nested children are
// left untouched.
func Sort(n *Node, opts ...SortOption) *Node {
	if n == nil {
		return n
	}

	cfg := sortConfig{key: TitleKey}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.key == nil {
		cfg.key = TitleKey
	}

	keys, err := buildKeys(n.Children, cfg.key)
	if err != nil {
		logger := cfg.logger
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		logger.Warn("sort key construction failed, falling back to title order",
			slog.String("sourceID", n.SourceID),
			slog.Any("error", err),
		)

		keys = make([]Key, len(n.Children))
		for i, child := range n.Children {
			keys[i] = fallbackKey(child)
		}
	}

	sortByKeys(n.Children, keys, cfg.descending)
	return n
}

func buildKeys(children []*Node, fn KeyFunc) ([]Key, error) {
	keys := make([]Key, len(children))
	for i, child := range children {
		key, err := callKeyFunc(fn, child)
		if err != nil {
			return nil, &KeyError{Index: i, Err: err}
		}

		keys[i] = key
	}

	return keys, nil
}

func callKeyFunc(fn KeyFunc, n *Node) (key Key, err error) {
	defer func() {
		if r := recover(); r != nil {
			key = nil
			err = fmt.Errorf("%w: %v", KeyPanic, r)
		}
	}()

	return fn(n)
}

func sortByKeys(children []*Node, keys []Key, descending bool) {
	order := make([]int, len(children))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		c := keys[a].Compare(keys[b])
		if descending {
			c = -c
		}

		return c
	})

	sorted := make([]*Node, len(children))
	for i, j := range order {
		sorted[i] = children[j]
	}
	copy(children, sorted)
}
