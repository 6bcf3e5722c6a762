// Package errors provides coded, actionable errors for startup and
// configuration failures.
//
// Each code maps to a registered template with a category, a short message
// and an explanation:
//   - E1xx: upload limits and filters
//   - E2xx: configuration loading and validation
//   - E3xx: server startup and shutdown
//
// # Usage
//
//	err := errors.New("E100").
//	    WithField("upload.max_file_size").
//	    WithSuggestion("Set a positive size in bytes, e.g. 10485760").
//	    Wrap(cause)
//
//	fmt.Fprintln(os.Stderr, err.Format())
//	// Output:
//	// ERROR E100: Invalid upload size limit
//	//
//	//   upload.max_file_size
//	//
//	//   The maximum upload size must be a positive number of bytes.
//	//
//	//   Hint: Set a positive size in bytes, e.g. 10485760
package errors
