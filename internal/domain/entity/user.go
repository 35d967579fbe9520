package entity

// User is a read-only view of the company roster. Identity resolution is
// owned by an external service; this core only needs role, company and
// manager linkage for eligibility decisions.
type User struct {
	ID        string  `json:"id"`
	CompanyID string  `json:"company_id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      Role    `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}
