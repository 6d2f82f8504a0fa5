package model

import "fmt"

// Outcome is the result of an access check: either the navigation proceeds
// untouched, or it is redirected to another path. The zero value proceeds.
type Outcome struct {
	redirect string
}

// Proceed returns the outcome that lets navigation continue.
func Proceed() Outcome {
	return Outcome{}
}

// RedirectTo returns the outcome that sends navigation to path instead.
func RedirectTo(path string) Outcome {
	return Outcome{redirect: path}
}

// Allowed returns true if the navigation may continue.
func (o Outcome) Allowed() bool {
	return o.redirect == ""
}

// Redirect returns the redirect target and whether one is set.
func (o Outcome) Redirect() (string, bool) {
	return o.redirect, o.redirect != ""
}

func (o Outcome) String() string {
	if o.redirect == "" {
		return "proceed"
	}
	return fmt.Sprintf("redirect(%s)", o.redirect)
}
