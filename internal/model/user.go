package model

import "time"

// Role names accepted by the signup endpoint.  RoleStudent is the default
// when a signup request supplies no role or an unknown one.  Only RoleAdmin
// unlocks the administrative dive endpoints.
const (
    RoleAdmin     = "admin"
    RoleStudent   = "student"
    RoleDeveloper = "developer"
    RoleQA        = "qa"
)

// KnownRole reports whether the given string is one of the four role names
// stored in the users.role enum column.
func KnownRole(role string) bool {
    switch role {
    case RoleAdmin, RoleStudent, RoleDeveloper, RoleQA:
        return true
    }
    return false
}

// User represents an application user record as stored in the `users` table.
// Each field corresponds to a column in the database.  The json tags are
// omitted here because these structs are primarily used internally by the
// repository layer; handlers define separate response types with appropriate
// JSON tags so that PasswordHash can never leak onto the wire.
//
// Fields:
//  ID            – primary key identifier of the user.
//  FullName      – diver's display name.
//  Email         – unique email address, stored lower-cased.
//  PasswordHash  – bcrypt hashed password.
//  LicenseNumber – optional diving license number (empty when absent).
//  Role          – role name (admin/student/developer/qa).
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type User struct {
    ID            uint64    // users.id
    FullName      string    // users.full_name
    Email         string    // users.email
    PasswordHash  string    // users.password_hash
    LicenseNumber string    // users.license_number (nullable, empty when NULL)
    Role          string    // users.role
    CreatedAt     time.Time // users.created_at
    UpdatedAt     time.Time // users.updated_at
}
