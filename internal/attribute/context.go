package attribute

import (
	"bytes"
	"encoding/json"
)

// Context is the ordered name-to-content mapping assembled during the
// judgment phase and handed to response generation. Insertion order is
// preserved so the generation prompt and the reported used-attribute set
// are deterministic given the same inputs.
//
// The zero value is not usable; call NewContext.
type Context struct {
	names  []string
	values map[string]string
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{values: make(map[string]string)}
}

// BuildContext assembles a context from masters and their fetched
// contents, in master order. Masters without fetched content (no entry
// in contents) are skipped. Pure: the inputs are not modified.
func BuildContext(masters []Master, contents map[int64]string) *Context {
	c := NewContext()
	for _, m := range masters {
		if content, ok := contents[m.ID]; ok {
			c.Set(m.Name, content)
		}
	}
	return c
}

// Set adds or replaces an entry. A replaced entry keeps its original
// position.
func (c *Context) Set(name, content string) {
	if _, exists := c.values[name]; !exists {
		c.names = append(c.names, name)
	}
	c.values[name] = content
}

// Get returns the content for name.
func (c *Context) Get(name string) (string, bool) {
	content, ok := c.values[name]
	return content, ok
}

// Names returns the attribute names in insertion order.
func (c *Context) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of entries.
func (c *Context) Len() int {
	return len(c.names)
}

// MarshalJSON encodes the context as a JSON object preserving insertion
// order.
func (c *Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the context. Key order in the
// source document is preserved.
func (c *Context) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return json.Unmarshal(data, &c.values) // surface the standard error
	}
	c.names = nil
	c.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}
		c.Set(key, val)
	}
	return nil
}
