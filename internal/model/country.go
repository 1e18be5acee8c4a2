package model

// Country is a row in the `countries` reference table.  Code is the
// two-letter key clients use; Name is what airlines and airports refer to.
type Country struct {
	Name string `json:"name"` // countries.name
	Code string `json:"code"` // countries.code
}
