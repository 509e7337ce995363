package domainerrors

// Violations accumulates per-field validation failures so a factory can
// surface every invalid field in one result instead of failing on the first.
type Violations map[string]string

// Add records a violation code against a field path. Later codes for the
// same path overwrite earlier ones.
func (v Violations) Add(path, code string) {
	v[path] = code
}

// Err returns a CodeFieldValidation error carrying the accumulated map, or
// nil when no violations were recorded.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	fields := make(map[string]string, len(v))
	for path, code := range v {
		fields[path] = code
	}
	return NewFieldErrors(fields)
}
