package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ad-auditor-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

const (
	clientsTable = "clients c"
)

type ClientRepository interface {
	Create(client *domain.ClientRecord) error
	GetByID(id string) (*domain.ClientRecord, error)
	ListByUserID(userID int) ([]*domain.ClientRecord, error)
	ListAutoSync() ([]*domain.ClientRecord, error)
	Update(client *domain.ClientRecord) error
	Delete(id string) error
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) Create(client *domain.ClientRecord) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("clients").
		Columns("id", "name", "email", "website", "notes", "user_id", "account_id", "auto_sync").
		Values(
			client.ID,
			client.Name,
			client.Email,
			client.Website,
			client.Notes,
			client.UserID,
			client.AccountID,
			client.AutoSync,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *clientRepository) GetByID(id string) (*domain.ClientRecord, error) {
	query, args, err := squirrel.
		Select(clientColumns()).
		From(clientsTable).
		Where(squirrel.Eq{"c.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	client, err := r.scanClient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear cliente: %w", err)
	}

	return client, nil
}

func (r *clientRepository) ListByUserID(userID int) ([]*domain.ClientRecord, error) {
	query, args, err := squirrel.
		Select(clientColumns()).
		From(clientsTable).
		Where(squirrel.Eq{"c.user_id": userID}).
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryClients(query, args...)
}

// ListAutoSync devolve os clientes marcados para auditoria automática e que
// têm conta de anúncios vinculada
func (r *clientRepository) ListAutoSync() ([]*domain.ClientRecord, error) {
	query, args, err := squirrel.
		Select(clientColumns()).
		From(clientsTable).
		Where(squirrel.Eq{"c.auto_sync": true}).
		Where(squirrel.NotEq{"c.account_id": nil}).
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryClients(query, args...)
}

func (r *clientRepository) Update(client *domain.ClientRecord) error {
	query, args, err := squirrel.StatementBuilder.
		Update("clients").
		Set("name", client.Name).
		Set("email", client.Email).
		Set("website", client.Website).
		Set("notes", client.Notes).
		Set("account_id", client.AccountID).
		Set("auto_sync", client.AutoSync).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": client.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *clientRepository) Delete(id string) error {
	query, args, err := squirrel.
		Delete("clients").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *clientRepository) queryClients(query string, args ...interface{}) ([]*domain.ClientRecord, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.ClientRecord, 0)
	for rows.Next() {
		client := &domain.ClientRecord{}
		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Email,
			&client.Website,
			&client.Notes,
			&client.UserID,
			&client.AccountID,
			&client.AutoSync,
			&client.CreatedAt,
			&client.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear clientes: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return clients, nil
}

func clientColumns() string {
	return "c.id, c.name, c.email, c.website, c.notes, c.user_id, c.account_id, c.auto_sync, c.created_at, c.updated_at"
}

func (r *clientRepository) scanClient(row *sql.Row) (*domain.ClientRecord, error) {
	client := &domain.ClientRecord{}

	err := row.Scan(
		&client.ID,
		&client.Name,
		&client.Email,
		&client.Website,
		&client.Notes,
		&client.UserID,
		&client.AccountID,
		&client.AutoSync,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
