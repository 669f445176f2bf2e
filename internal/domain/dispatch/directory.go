package dispatch

// Directory is the fixed name<->identifier mapping for dispatchers.
// Both the dropdown population and pre-submit validation go through the
// same instance, so the two can never drift apart.
type Directory struct {
	names  []string
	byName map[string]string
}

// Entry bitta dispetcher yozuvi
type Entry struct {
	Name string
	UUID string
}

var defaultEntries = []Entry{
	{Name: "浦西配送中心", UUID: "BSUDCMXM70TVZXAOHP8HVGMWIYPKXINK"},
	{Name: "浦东配送中心", UUID: "BSUBUF32MMHXZLXY8U1RIYEUPJYD1NSM"},
	{Name: "马师傅", UUID: "BSUV89NLHLH8ECSQOOQWQFLURXRGCH6O"},
	{Name: "莫师傅", UUID: "BSUSVWNVWIFMVCZW5KW3RU2ZC6AEEC07"},
}

// NewDirectory builds a directory from the given entries.
func NewDirectory(entries []Entry) *Directory {
	d := &Directory{byName: make(map[string]string, len(entries))}
	for _, e := range entries {
		if _, dup := d.byName[e.Name]; dup {
			continue
		}
		d.names = append(d.names, e.Name)
		d.byName[e.Name] = e.UUID
	}
	return d
}

// DefaultDirectory returns the compiled-in dispatcher set.
func DefaultDirectory() *Directory {
	return NewDirectory(defaultEntries)
}

// Resolve nomni identifikatorga o'giradi (case-sensitive, exact match)
func (d *Directory) Resolve(name string) (string, bool) {
	id, ok := d.byName[name]
	return id, ok
}

// AllNames returns every known name in declaration order.
func (d *Directory) AllNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}
