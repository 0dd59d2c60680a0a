package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fansubkit/metaparse/internal/models"
	"github.com/google/uuid"
)

// ErrSecretNotFound is returned when a secret with the given name does not exist.
var ErrSecretNotFound = errors.New("secret not found")

// SecretsRepository provides data access operations for encrypted secrets,
// such as third-party API credentials the release-group harvester needs.
type SecretsRepository struct {
	db *sql.DB
}

// NewSecretsRepository creates a new instance of SecretsRepository.
func NewSecretsRepository(db *sql.DB) *SecretsRepository {
	return &SecretsRepository{
		db: db,
	}
}

// Set creates or updates an encrypted secret (upsert by name).
func (r *SecretsRepository) Set(ctx context.Context, name string, encryptedValue string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if encryptedValue == "" {
		return fmt.Errorf("encrypted value cannot be empty")
	}

	now := time.Now()

	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM secrets WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check secret existence: %w", err)
	}

	if exists {
		_, err = r.db.ExecContext(ctx, `
			UPDATE secrets SET encrypted_value = ?, updated_at = ? WHERE name = ?
		`, encryptedValue, now, name)
		if err != nil {
			return fmt.Errorf("failed to update secret: %w", err)
		}
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO secrets (id, name, encrypted_value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), name, encryptedValue, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert secret: %w", err)
	}

	return nil
}

// Get retrieves an encrypted secret's value by name.
func (r *SecretsRepository) Get(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	var value string
	err := r.db.QueryRowContext(ctx, `
		SELECT encrypted_value FROM secrets WHERE name = ?
	`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}

	return value, nil
}

// GetFull retrieves the full secret record by name.
func (r *SecretsRepository) GetFull(ctx context.Context, name string) (*models.Secret, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	secret := &models.Secret{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, encrypted_value, created_at, updated_at FROM secrets WHERE name = ?
	`, name).Scan(&secret.ID, &secret.Name, &secret.EncryptedValue, &secret.CreatedAt, &secret.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSecretNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	return secret, nil
}

// Delete removes a secret by name.
func (r *SecretsRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM secrets WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSecretNotFound
	}

	return nil
}

// Exists checks if a secret with the given name exists.
func (r *SecretsRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM secrets WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check secret existence: %w", err)
	}
	return exists, nil
}

// List returns all secret names, sorted alphabetically.
func (r *SecretsRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM secrets ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan secret name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating secrets: %w", err)
	}

	return names, nil
}

// ListAll returns metadata for every stored secret, without encrypted values.
func (r *SecretsRepository) ListAll(ctx context.Context) ([]*models.SecretInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM secrets ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	defer rows.Close()

	infos := make([]*models.SecretInfo, 0)
	for rows.Next() {
		info := &models.SecretInfo{}
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan secret info: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating secrets: %w", err)
	}

	return infos, nil
}
