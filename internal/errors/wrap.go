package errors

import "fmt"

// Wrap adds context to an error at a package boundary. A nil err
// passes through as nil, and the chain stays intact for errors.Is
// checks against the sentinels above.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a format string:
//
//	return errors.Wrapf(err, "failed to load execution %s", id)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
