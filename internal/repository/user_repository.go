package repository

import (
    "context"
    "database/sql"
    "time"
)

// Back-office roles.  The distinction only gates HTTP routes; the
// booking engine itself is role-blind.
const (
    RoleAdmin     = "ADMIN"
    RoleReception = "RECEPTION"
)

// User is an application account for the back office.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
}

// UserRepo provides account lookups for the auth glue.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new account.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
    const q = `INSERT INTO users (name, email, password_hash, role) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, u.Name, u.Email, u.PasswordHash, u.Role)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    u.ID = uint64(id)
    return nil
}

// GetByEmail finds an account for login, or ErrUserNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
    const q = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = ?`
    var u User
    err := r.db.QueryRowContext(ctx, q, email).Scan(
        &u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}

// GetByID loads an account by primary key, used by the /me endpoint.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*User, error) {
    const q = `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = ?`
    var u User
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}
