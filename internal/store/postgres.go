package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"STOREFRONT_BACK-END/internal/config"
	"STOREFRONT_BACK-END/internal/models"
)

const websiteColumns = `id, user_id, business_name, business_description, industry,
	contact_email, contact_phone, address, logo_image, hero_image,
	products, colors, social_links, slug, is_active, created_at, updated_at`

// PostgresStore stores every collection in PostgreSQL. Nested website fields
// are kept in JSONB columns.
type PostgresStore struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects a pool and verifies it with a ping
func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// simple protocol is required behind PgBouncer in transaction mode
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.Tracing.ServiceName
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprint(cfg.Database.QueryTimeout.Milliseconds())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool, queryTimeout: cfg.Database.QueryTimeout}, nil
}

// Migrate creates the tables and indexes if they do not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Users

func (s *PostgresStore) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUser(ctx, "id = $1", id)
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = $1", email)
}

func (s *PostgresStore) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, is_active, created_at FROM users WHERE `+where,
		arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.IsActive, u.CreatedAt)
	return mapError(err)
}

// Websites

func (s *PostgresStore) FindWebsite(ctx context.Context, f WebsiteFilter) (*models.Website, error) {
	sites, err := s.FindWebsites(ctx, f, 1)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, ErrNotFound
	}
	return &sites[0], nil
}

func (s *PostgresStore) FindWebsites(ctx context.Context, f WebsiteFilter, limit int) ([]models.Website, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	where, args := websiteWhere(f, 1)
	query := `SELECT ` + websiteColumns + ` FROM websites` + where + ` ORDER BY created_at ASC, id ASC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]models.Website, 0)
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *PostgresStore) InsertWebsite(ctx context.Context, w *models.Website) error {
	products, colors, links, err := encodeWebsiteDocs(w.Products, w.Colors, w.SocialLinks)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO websites (`+websiteColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12::jsonb, $13::jsonb, $14, $15, $16, $17)`,
		w.ID, w.UserID, w.BusinessName, w.BusinessDescription, w.Industry,
		w.ContactEmail, w.ContactPhone, w.Address, w.LogoImage, w.HeroImage,
		products, colors, links, w.Slug, w.IsActive, w.CreatedAt, w.UpdatedAt)
	return mapError(err)
}

func (s *PostgresStore) UpdateWebsite(ctx context.Context, f WebsiteFilter, patch models.WebsitePatch) (int64, error) {
	set, args, err := websiteSet(patch)
	if err != nil {
		return 0, err
	}
	if len(set) == 0 {
		n, err := s.countWebsites(ctx, f)
		return n, err
	}

	where, whereArgs := websiteWhere(f, len(args)+1)
	args = append(args, whereArgs...)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.pool.Exec(ctx, `UPDATE websites SET `+strings.Join(set, ", ")+where, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) countWebsites(ctx context.Context, f WebsiteFilter) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	where, args := websiteWhere(f, 1)
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM websites`+where, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// Verifications

func (s *PostgresStore) LatestActiveVerification(ctx context.Context, userID uuid.UUID) (*models.AuthVerification, error) {
	return s.findVerification(ctx,
		`user_id = $1 AND used = false AND expires_at > NOW()`, userID)
}

func (s *PostgresStore) FindVerification(ctx context.Context, email, code string) (*models.AuthVerification, error) {
	return s.findVerification(ctx, `email = $1 AND code = $2`, email, code)
}

func (s *PostgresStore) findVerification(ctx context.Context, where string, args ...any) (*models.AuthVerification, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var v models.AuthVerification
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, email, code, expires_at, used, created_at FROM auth_verifications
		 WHERE `+where+` ORDER BY created_at DESC LIMIT 1`,
		args...).Scan(&v.ID, &v.UserID, &v.Email, &v.Code, &v.ExpiresAt, &v.Used, &v.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

func (s *PostgresStore) InsertVerification(ctx context.Context, v *models.AuthVerification) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO auth_verifications (id, user_id, email, code, expires_at, used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.UserID, v.Email, v.Code, v.ExpiresAt, v.Used, v.CreatedAt)
	return mapError(err)
}

// ConsumeVerification marks the code used and sets the password in one
// transaction. A code that is already used matches no row.
func (s *PostgresStore) ConsumeVerification(ctx context.Context, id, userID uuid.UUID, passwordHash string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE auth_verifications SET used = true WHERE id = $1 AND user_id = $2 AND used = false`,
		id, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	tag, err = tx.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// websiteWhere renders f as a WHERE clause whose placeholders start at $first
func websiteWhere(f WebsiteFilter, first int) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, first+len(args)-1))
	}
	if f.ID != uuid.Nil {
		add("id = $%d", f.ID)
	}
	if f.UserID != uuid.Nil {
		add("user_id = $%d", f.UserID)
	}
	if f.Slug != "" {
		add("slug = $%d", f.Slug)
	}
	if f.ActiveOnly {
		conds = append(conds, "is_active = true")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// websiteSet renders the present patch fields as SET assignments starting at $1
func websiteSet(p models.WebsitePatch) ([]string, []any, error) {
	var set []string
	var args []any
	add := func(col string, arg any) {
		args = append(args, arg)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	addJSON := func(col string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", col, err)
		}
		args = append(args, string(b))
		set = append(set, fmt.Sprintf("%s = $%d::jsonb", col, len(args)))
		return nil
	}

	if p.BusinessName != nil {
		add("business_name", *p.BusinessName)
	}
	if p.BusinessDescription != nil {
		add("business_description", *p.BusinessDescription)
	}
	if p.Industry != nil {
		add("industry", *p.Industry)
	}
	if p.ContactEmail != nil {
		add("contact_email", *p.ContactEmail)
	}
	if p.ContactPhone != nil {
		add("contact_phone", *p.ContactPhone)
	}
	if p.Address != nil {
		add("address", *p.Address)
	}
	// a nil Value is written as NULL
	if p.LogoImage.Set {
		add("logo_image", p.LogoImage.Value)
	}
	if p.HeroImage.Set {
		add("hero_image", p.HeroImage.Value)
	}
	if p.Products != nil {
		if err := addJSON("products", nonNilProducts(*p.Products)); err != nil {
			return nil, nil, err
		}
	}
	if p.Colors != nil {
		if err := addJSON("colors", *p.Colors); err != nil {
			return nil, nil, err
		}
	}
	if p.SocialLinks != nil {
		if err := addJSON("social_links", nonNilLinks(*p.SocialLinks)); err != nil {
			return nil, nil, err
		}
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	if p.UpdatedAt != nil {
		add("updated_at", *p.UpdatedAt)
	}
	return set, args, nil
}

func scanWebsite(row pgx.Row) (*models.Website, error) {
	var w models.Website
	var products, colors, links []byte
	err := row.Scan(&w.ID, &w.UserID, &w.BusinessName, &w.BusinessDescription, &w.Industry,
		&w.ContactEmail, &w.ContactPhone, &w.Address, &w.LogoImage, &w.HeroImage,
		&products, &colors, &links, &w.Slug, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(products, &w.Products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if err := json.Unmarshal(colors, &w.Colors); err != nil {
		return nil, fmt.Errorf("decode colors: %w", err)
	}
	if err := json.Unmarshal(links, &w.SocialLinks); err != nil {
		return nil, fmt.Errorf("decode social_links: %w", err)
	}
	return &w, nil
}

func encodeWebsiteDocs(products []models.Product, colors models.Colors, links map[string]string) (string, string, string, error) {
	p, err := json.Marshal(nonNilProducts(products))
	if err != nil {
		return "", "", "", fmt.Errorf("encode products: %w", err)
	}
	c, err := json.Marshal(colors)
	if err != nil {
		return "", "", "", fmt.Errorf("encode colors: %w", err)
	}
	l, err := json.Marshal(nonNilLinks(links))
	if err != nil {
		return "", "", "", fmt.Errorf("encode social_links: %w", err)
	}
	return string(p), string(c), string(l), nil
}

func nonNilProducts(p []models.Product) []models.Product {
	if p == nil {
		return []models.Product{}
	}
	return p
}

func nonNilLinks(l map[string]string) map[string]string {
	if l == nil {
		return map[string]string{}
	}
	return l
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
