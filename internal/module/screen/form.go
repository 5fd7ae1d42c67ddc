package screen

import (
	"github.com/go-playground/form"
)

// formEncoder is safe for concurrent use and caches struct metadata.
var formEncoder = newFormEncoder()

func newFormEncoder() *form.Encoder {
	enc := form.NewEncoder()
	enc.SetTagName("form")
	return enc
}

// formValues flattens a draft struct into its form field values, keyed by
// form tag. Fields tagged omitempty (numeric ids and counts) render as
// empty inputs when zero. Anything that is not a struct yields no values.
func formValues(draft any) map[string]string {
	out := map[string]string{}
	values, err := formEncoder.Encode(draft)
	if err != nil {
		return out
	}
	for name := range values {
		// A bare value encodes under the empty name.
		if name != "" {
			out[name] = values.Get(name)
		}
	}
	return out
}
