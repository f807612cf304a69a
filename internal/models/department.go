package models

// Departments is the fixed set of staff groups that own and resolve complaints.
var Departments = []string{
	"Academic Support and Resources",
	"Financial Support",
	"IT",
	"Student Affairs",
}

// ValidDepartment reports whether name is one of the enumerated departments.
func ValidDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}
