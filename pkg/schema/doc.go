// Package schema checks animator definitions before they reach the runtime.
//
// Validate reports authoring errors that make a definition unusable or
// ambiguous: missing names, duplicates, references to undeclared states or
// parameters and conditions whose mode does not fit the parameter type.
// Lint reports suspicious but legal definitions, such as transitions that
// can never complete or states no transition leads to.
//
//	if err := schema.Validate(&def); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// The runtime itself is permissive and only enforces Validate when built
// with keyframe.WithStrict.
package schema
