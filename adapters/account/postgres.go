package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sakury/vidora/core"
	"github.com/sakury/vidora/ports"
)

// ErrUniqueViolation is returned when an insert collides on a unique key
// other than email or nick name
var ErrUniqueViolation = errors.New("unique constraint violated")

const (
	uniqueViolationCode = "23505"

	emailConstraint    = "user_info_email_key"
	nickNameConstraint = "user_info_nick_name_key"
)

const selectColumns = `user_id, nick_name, avatar, email, password, sex, birthday, school,
	person_introduction, register_time, last_login_time, last_login_ip, status,
	notice_info, total_coin_count, current_coin_count, theme`

var _ ports.AccountStore = (*PostgresRepository)(nil)

// PostgresRepository stores accounts in the user_info table
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (core.Account, error) {
	return r.findOne(ctx, "email", email)
}

func (r *PostgresRepository) FindByNickName(ctx context.Context, nickName string) (core.Account, error) {
	return r.findOne(ctx, "nick_name", nickName)
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (core.Account, error) {
	return r.findOne(ctx, "user_id", userID)
}

func (r *PostgresRepository) Insert(ctx context.Context, a core.Account) error {
	const query = `
        INSERT INTO user_info (user_id, nick_name, avatar, email, password, sex, birthday, school,
            person_introduction, register_time, last_login_time, last_login_ip, status,
            notice_info, total_coin_count, current_coin_count, theme)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    `

	_, err := r.db.ExecContext(ctx, query,
		a.UserID, a.NickName, a.Avatar, a.Email, a.Password, a.Sex, a.Birthday, a.School,
		a.PersonIntroduction, a.RegisterTime, a.LastLoginTime, a.LastLoginIP, int(a.Status),
		a.NoticeInfo, a.TotalCoinCount, a.CurrentCoinCount, a.Theme,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", mapInsertError(err))
	}
	return nil
}

func (r *PostgresRepository) UpdateByUserID(ctx context.Context, userID string, update core.AccountUpdate) error {
	sets, args := updateAssignments(update)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE user_info SET %s WHERE user_id = $%d", strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_info WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) findOne(ctx context.Context, column, value string) (core.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM user_info WHERE %s = $1", selectColumns, column)

	var (
		a         core.Account
		status    int
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&a.UserID, &a.NickName, &a.Avatar, &a.Email, &a.Password, &a.Sex, &a.Birthday, &a.School,
		&a.PersonIntroduction, &a.RegisterTime, &lastLogin, &a.LastLoginIP, &status,
		&a.NoticeInfo, &a.TotalCoinCount, &a.CurrentCoinCount, &a.Theme,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Account{}, core.ErrNotFound
		}
		return core.Account{}, fmt.Errorf("failed to get account by %s: %w", column, err)
	}

	a.Status = core.AccountStatus(status)
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginTime = &t
	}
	return a, nil
}

func updateAssignments(u core.AccountUpdate) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.NickName != nil {
		add("nick_name", *u.NickName)
	}
	if u.Avatar != nil {
		add("avatar", *u.Avatar)
	}
	if u.Sex != nil {
		add("sex", *u.Sex)
	}
	if u.Birthday != nil {
		add("birthday", *u.Birthday)
	}
	if u.School != nil {
		add("school", *u.School)
	}
	if u.PersonIntroduction != nil {
		add("person_introduction", *u.PersonIntroduction)
	}
	if u.NoticeInfo != nil {
		add("notice_info", *u.NoticeInfo)
	}
	if u.LastLoginTime != nil {
		add("last_login_time", *u.LastLoginTime)
	}
	if u.LastLoginIP != nil {
		add("last_login_ip", *u.LastLoginIP)
	}
	if u.Status != nil {
		add("status", int(*u.Status))
	}
	if u.TotalCoinCount != nil {
		add("total_coin_count", *u.TotalCoinCount)
	}
	if u.CurrentCoinCount != nil {
		add("current_coin_count", *u.CurrentCoinCount)
	}
	if u.Theme != nil {
		add("theme", *u.Theme)
	}
	return sets, args
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// mapInsertError turns unique violations on email and nick name into the
// matching business errors
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	switch pgErr.ConstraintName {
	case emailConstraint:
		return core.ErrDuplicateEmail
	case nickNameConstraint:
		return core.ErrDuplicateNickname
	default:
		return ErrUniqueViolation
	}
}
