package caiosm

import (
	"sort"
)

// Attribute is a single classified field
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an ordered list of classified fields. Order defines column order on export.
type Attributes []Attribute

// Get returns value of the field
func (attrs Attributes) Get(key string) (string, bool) {
	for _, attr := range attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set returns attributes with the field replaced or appended
func (attrs Attributes) Set(key, value string) Attributes {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attribute{Key: key, Value: value})
}

// Keys returns field names in order
func (attrs Attributes) Keys() []string {
	keys := make([]string, len(attrs))
	for i, attr := range attrs {
		keys[i] = attr.Key
	}
	return keys
}

// Clone returns copy which can be modified independently
func (attrs Attributes) Clone() Attributes {
	if attrs == nil {
		return nil
	}
	cloned := make(Attributes, len(attrs))
	copy(cloned, attrs)
	return cloned
}

// Map returns attributes as key-value map
func (attrs Attributes) Map() map[string]string {
	ans := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		ans[attr.Key] = attr.Value
	}
	return ans
}

// mergeKeys returns union of keys in first-seen order
func mergeKeys(attrsList ...Attributes) []string {
	seen := make(map[string]struct{})
	keys := []string{}
	for _, attrs := range attrsList {
		for _, attr := range attrs {
			if _, ok := seen[attr.Key]; ok {
				continue
			}
			seen[attr.Key] = struct{}{}
			keys = append(keys, attr.Key)
		}
	}
	return keys
}

func sortedAttributes(m map[string]string) Attributes {
	attrs := make(Attributes, 0, len(m))
	for k, v := range m {
		attrs = append(attrs, Attribute{Key: k, Value: v})
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Key < attrs[j].Key
	})
	return attrs
}
