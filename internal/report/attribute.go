package report

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgrid/internal/attr"
)

// Classifier decides whether an (attribute, value) pair belongs to the
// unstable, subject-to-change API surface. The classification logic itself
// lives outside this core; the report only consumes the predicate.
type Classifier interface {
	IsIncubating(key attr.Key, value cty.Value) bool
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(key attr.Key, value cty.Value) bool

func (f ClassifierFunc) IsIncubating(key attr.Key, value cty.Value) bool { return f(key, value) }

// StableClassifier treats every attribute as stable. Useful where no
// classifier has been wired up.
var StableClassifier Classifier = ClassifierFunc(func(attr.Key, cty.Value) bool { return false })

// Attribute is an immutable snapshot of one attribute's value and incubation
// flag, captured at read time.
type Attribute struct {
	name       string
	value      cty.Value
	incubating bool
}

// FromAttributeInContainer reads the current value of key from the container
// and snapshots it. A key absent from the container yields a null value, not
// a failure; the classifier is consulted either way.
func FromAttributeInContainer(key attr.Key, container *attr.Container, classifier Classifier) Attribute {
	value, ok := container.Get(key)
	if !ok {
		value = cty.NullVal(key.Type())
	}
	return Attribute{
		name:       key.Name(),
		value:      value,
		incubating: classifier.IsIncubating(key, value),
	}
}

// FromImmutable snapshots a key out of an already-captured attribute set.
func FromImmutable(key attr.Key, attributes attr.Immutable, classifier Classifier) Attribute {
	value, ok := attributes.Get(key)
	if !ok {
		value = cty.NullVal(key.Type())
	}
	return Attribute{
		name:       key.Name(),
		value:      value,
		incubating: classifier.IsIncubating(key, value),
	}
}

// Name returns the attribute's name.
func (a Attribute) Name() string { return a.name }

// Value returns the captured value; null when the attribute was absent.
func (a Attribute) Value() cty.Value { return a.value }

// IsIncubating reports the classifier's verdict for the captured pair.
func (a Attribute) IsIncubating() bool { return a.incubating }
