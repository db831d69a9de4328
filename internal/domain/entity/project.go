package entity

// Project is owned by the projects collaborator; the ledger only needs the id
// and name for booking attribution and import resolution.
type Project struct {
	ID     string
	Name   string
	Active bool
}

// UserRef is the actor reference owned by the user-management collaborator.
// Journal entries carry the id; exports join the name.
type UserRef struct {
	ID   string
	Name string
}
