package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ad-auditor-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-auditor-api/internal/domain"
)

const (
	auditsTable = "audits a"
)

type AuditRepository interface {
	Save(entry *domain.AuditEntry) error
	GetByID(id string) (*domain.AuditEntry, error)
	LatestByAccountID(accountID string) (*domain.AuditEntry, error)
	ListByClientID(clientID string, limit int) ([]*domain.AuditEntry, error)
	DeleteOlderThan(days int) (int64, error)
}

type auditRepository struct {
	conn *postgres.Connection
}

func NewAuditRepository(conn *postgres.Connection) AuditRepository {
	return &auditRepository{
		conn: conn,
	}
}

func (r *auditRepository) Save(entry *domain.AuditEntry) error {
	snapshotJSON, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return fmt.Errorf("erro ao serializar snapshot para JSON: %w", err)
	}

	recommendationsJSON, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return fmt.Errorf("erro ao serializar recomendações para JSON: %w", err)
	}

	query, args, err := squirrel.StatementBuilder.
		Insert("audits").
		Columns(
			"id",
			"account_id",
			"client_id",
			"snapshot",
			"recommendations",
			"recommendation_source",
			"estimated_savings",
			"created_at",
		).
		Values(
			entry.ID,
			entry.AccountID,
			entry.ClientID,
			snapshotJSON,
			recommendationsJSON,
			string(entry.Source),
			entry.EstimatedSavings,
			entry.CreatedAt,
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

func (r *auditRepository) GetByID(id string) (*domain.AuditEntry, error) {
	query, args, err := squirrel.
		Select(auditColumns()).
		From(auditsTable).
		Where(squirrel.Eq{"a.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	entry, err := r.scanAudit(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear auditoria: %w", err)
	}

	return entry, nil
}

// LatestByAccountID devolve a auditoria mais recente da conta ou nil quando a
// conta nunca foi auditada. É o fallback do controlador quando o upstream
// falha de forma definitiva.
func (r *auditRepository) LatestByAccountID(accountID string) (*domain.AuditEntry, error) {
	query, args, err := squirrel.
		Select(auditColumns()).
		From(auditsTable).
		Where(squirrel.Eq{"a.account_id": accountID}).
		OrderBy("a.created_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	entry, err := r.scanAudit(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear auditoria: %w", err)
	}

	return entry, nil
}

func (r *auditRepository) ListByClientID(clientID string, limit int) ([]*domain.AuditEntry, error) {
	builder := squirrel.
		Select(auditColumns()).
		From(auditsTable).
		Where(squirrel.Eq{"a.client_id": clientID}).
		OrderBy("a.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		entry, err := r.scanAuditRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear auditorias: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

func (r *auditRepository) DeleteOlderThan(days int) (int64, error) {
	query, args, err := squirrel.
		Delete("audits").
		Where(squirrel.Expr("created_at < NOW() - make_interval(days => ?)", days)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func auditColumns() string {
	return "a.id, a.account_id, a.client_id, a.snapshot, a.recommendations, a.recommendation_source, a.estimated_savings, a.created_at"
}

func (r *auditRepository) scanAudit(row *sql.Row) (*domain.AuditEntry, error) {
	entry := &domain.AuditEntry{}
	var snapshotJSON, recommendationsJSON []byte
	var source string

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.ClientID,
		&snapshotJSON,
		&recommendationsJSON,
		&source,
		&entry.EstimatedSavings,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := deserializeAuditPayload(entry, snapshotJSON, recommendationsJSON, source); err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *auditRepository) scanAuditRows(rows *sql.Rows) (*domain.AuditEntry, error) {
	entry := &domain.AuditEntry{}
	var snapshotJSON, recommendationsJSON []byte
	var source string

	err := rows.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.ClientID,
		&snapshotJSON,
		&recommendationsJSON,
		&source,
		&entry.EstimatedSavings,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := deserializeAuditPayload(entry, snapshotJSON, recommendationsJSON, source); err != nil {
		return nil, err
	}

	return entry, nil
}

func deserializeAuditPayload(entry *domain.AuditEntry, snapshotJSON, recommendationsJSON []byte, source string) error {
	if snapshotJSON != nil {
		snapshot := &domain.AccountSnapshot{}
		if err := json.Unmarshal(snapshotJSON, snapshot); err != nil {
			return fmt.Errorf("erro ao deserializar JSON de snapshot: %w", err)
		}
		entry.Snapshot = snapshot
	}

	if recommendationsJSON != nil {
		recommendations := make([]domain.Recommendation, 0)
		if err := json.Unmarshal(recommendationsJSON, &recommendations); err != nil {
			return fmt.Errorf("erro ao deserializar JSON de recomendações: %w", err)
		}
		entry.Recommendations = recommendations
	}

	entry.Source = domain.RecommendationSource(source)
	return nil
}
