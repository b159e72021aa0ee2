package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/jakechorley/gateway-to-service/pkg/core/model"
	"github.com/jakechorley/gateway-to-service/pkg/db"
)

type defaultsFunc func() *model.State

var _ db.Database = (*DB)(nil)

func (d *DB) defaultState() *model.State {
	if d.defaults == nil {
		return model.DefaultState()
	}
	return d.defaults()
}

// LoadState reads the whole state. An empty database yields the defaults.
func (d *DB) LoadState(ctx context.Context) (*model.State, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	state := d.defaultState()

	var settings, extra []byte
	err = tx.QueryRow(ctx, `SELECT version, settings, extra FROM app_settings WHERE id = 1`).
		Scan(&state.Version, &settings, &extra)
	if errors.Is(err, pgx.ErrNoRows) {
		d.logger.Info("No saved state found in database, starting fresh")
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	if state.Version != model.CurrentVersion {
		return nil, fmt.Errorf("%w: %d", db.ErrUnsupportedVersion, state.Version)
	}
	if err := json.Unmarshal(settings, &state.Settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if state.Extra, err = decodeExtra(extra); err != nil {
		return nil, err
	}

	if state.Volunteers, err = getVolunteers(ctx, tx); err != nil {
		return nil, err
	}
	if state.Weeks, err = getWeeks(ctx, tx); err != nil {
		return nil, err
	}
	if err := attachInvites(ctx, tx, state.Weeks); err != nil {
		return nil, err
	}

	d.logger.Debug("Loaded state from database",
		zap.Int("volunteers", len(state.Volunteers)),
		zap.Int("weeks", len(state.Weeks)))
	return state, nil
}

func getVolunteers(ctx context.Context, tx pgx.Tx) ([]model.Volunteer, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, phone, core_role, invite_cadence, active, first_time,
		       last_invited_at, last_confirmed_date, last_declined_date, extra
		FROM volunteer
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := []model.Volunteer{}
	for rows.Next() {
		var v model.Volunteer
		var role, cadence string
		var invited, confirmed, declined pgtype.Date
		var extra []byte
		if err := rows.Scan(&v.ID, &v.Name, &v.Phone, &role, &cadence, &v.Active, &v.FirstTime,
			&invited, &confirmed, &declined, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan volunteer: %w", err)
		}
		v.CoreRole = model.Role(role)
		v.InviteCadence = model.Cadence(cadence)
		v.LastInvitedAt = fromPgDate(invited)
		v.LastConfirmedDate = fromPgDate(confirmed)
		v.LastDeclinedDate = fromPgDate(declined)
		if v.Extra, err = decodeExtra(extra); err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}
	return volunteers, nil
}

func getWeeks(ctx context.Context, tx pgx.Tx) ([]model.Week, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, date, needed_count, finalized, extra
		FROM week
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	defer rows.Close()

	weeks := []model.Week{}
	for rows.Next() {
		w := model.Week{Invites: []model.Invite{}}
		var date pgtype.Date
		var extra []byte
		if err := rows.Scan(&w.ID, &date, &w.NeededCount, &w.Finalized, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		w.Date = fromPgDate(date)
		if w.Extra, err = decodeExtra(extra); err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weeks: %w", err)
	}
	return weeks, nil
}

func attachInvites(ctx context.Context, tx pgx.Tx, weeks []model.Week) error {
	byID := make(map[string]int, len(weeks))
	for i, w := range weeks {
		byID[w.ID] = i
	}

	rows, err := tx.Query(ctx, `
		SELECT id, week_id, volunteer_id, status,
		       invite_sent_at, follow_up_sent_at, response_at, created_at, auto_added, auto_added_at,
		       prev_last_invited_captured, prev_last_invited_at,
		       prev_last_confirmed_captured, prev_last_confirmed_date,
		       prev_last_declined_captured, prev_last_declined_date,
		       extra
		FROM invite
		ORDER BY week_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var inv model.Invite
		var weekID, status string
		var invitedCaptured, confirmedCaptured, declinedCaptured bool
		var invited, confirmed, declined pgtype.Date
		var extra []byte
		if err := rows.Scan(&inv.ID, &weekID, &inv.VolunteerID, &status,
			&inv.InviteSentAt, &inv.FollowUpSentAt, &inv.ResponseAt, &inv.CreatedAt, &inv.AutoAdded, &inv.AutoAddedAt,
			&invitedCaptured, &invited,
			&confirmedCaptured, &confirmed,
			&declinedCaptured, &declined,
			&extra); err != nil {
			return fmt.Errorf("failed to scan invite: %w", err)
		}

		if inv.Status, err = model.ParseStatus(status); err != nil {
			return fmt.Errorf("invite %s: %w", inv.ID, err)
		}
		inv.PrevLastInvitedAt = toSnapshot(invitedCaptured, invited)
		inv.PrevLastConfirmedDate = toSnapshot(confirmedCaptured, confirmed)
		inv.PrevLastDeclinedDate = toSnapshot(declinedCaptured, declined)
		if inv.Extra, err = decodeExtra(extra); err != nil {
			return err
		}

		i, ok := byID[weekID]
		if !ok {
			continue
		}
		weeks[i].Invites = append(weeks[i].Invites, inv)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating invites: %w", err)
	}
	return nil
}

// SaveState replaces the stored state in a single transaction, so a failed save
// leaves the previous state in place
func (d *DB) SaveState(ctx context.Context, state *model.State) error {
	settings, err := json.Marshal(state.Settings)
	if err != nil {
		return fmt.Errorf("failed to serialise settings: %w", err)
	}
	stateExtra, err := encodeExtra(state.Extra)
	if err != nil {
		return err
	}

	volunteerRows, err := buildVolunteerRows(state.Volunteers)
	if err != nil {
		return err
	}
	weekRows, inviteRows, err := buildWeekRows(state.Weeks)
	if err != nil {
		return err
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO app_settings (id, version, settings, extra, updated_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET version = EXCLUDED.version, settings = EXCLUDED.settings,
		    extra = EXCLUDED.extra, updated_at = EXCLUDED.updated_at
	`, model.CurrentVersion, settings, stateExtra, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	for _, table := range []string{"invite", "week", "volunteer"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"volunteer"}, []string{
		"id", "position", "name", "phone", "core_role", "invite_cadence", "active", "first_time",
		"last_invited_at", "last_confirmed_date", "last_declined_date", "extra",
	}, pgx.CopyFromRows(volunteerRows)); err != nil {
		return fmt.Errorf("failed to insert volunteers: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"week"}, []string{
		"id", "position", "date", "needed_count", "finalized", "extra",
	}, pgx.CopyFromRows(weekRows)); err != nil {
		return fmt.Errorf("failed to insert weeks: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"invite"}, []string{
		"id", "week_id", "position", "volunteer_id", "status",
		"invite_sent_at", "follow_up_sent_at", "response_at", "created_at", "auto_added", "auto_added_at",
		"prev_last_invited_captured", "prev_last_invited_at",
		"prev_last_confirmed_captured", "prev_last_confirmed_date",
		"prev_last_declined_captured", "prev_last_declined_date",
		"extra",
	}, pgx.CopyFromRows(inviteRows)); err != nil {
		return fmt.Errorf("failed to insert invites: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	d.logger.Debug("Saved state to database",
		zap.Int("volunteers", len(volunteerRows)),
		zap.Int("weeks", len(weekRows)),
		zap.Int("invites", len(inviteRows)))
	return nil
}

func buildVolunteerRows(volunteers []model.Volunteer) ([][]any, error) {
	rows := make([][]any, 0, len(volunteers))
	for i, v := range volunteers {
		extra, err := encodeExtra(v.Extra)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []any{
			v.ID, i, v.Name, v.Phone, string(v.CoreRole), string(v.InviteCadence), v.Active, v.FirstTime,
			toPgDate(v.LastInvitedAt), toPgDate(v.LastConfirmedDate), toPgDate(v.LastDeclinedDate), extra,
		})
	}
	return rows, nil
}

func buildWeekRows(weeks []model.Week) (weekRows, inviteRows [][]any, err error) {
	for i, w := range weeks {
		extra, err := encodeExtra(w.Extra)
		if err != nil {
			return nil, nil, err
		}
		weekRows = append(weekRows, []any{w.ID, i, toPgDate(w.Date), w.NeededCount, w.Finalized, extra})

		for j, inv := range w.Invites {
			extra, err := encodeExtra(inv.Extra)
			if err != nil {
				return nil, nil, err
			}
			inviteRows = append(inviteRows, []any{
				inv.ID, w.ID, j, inv.VolunteerID, string(inv.Status),
				inv.InviteSentAt, inv.FollowUpSentAt, inv.ResponseAt, inv.CreatedAt, inv.AutoAdded, inv.AutoAddedAt,
				inv.PrevLastInvitedAt.Captured, toPgDate(inv.PrevLastInvitedAt.Value),
				inv.PrevLastConfirmedDate.Captured, toPgDate(inv.PrevLastConfirmedDate.Value),
				inv.PrevLastDeclinedDate.Captured, toPgDate(inv.PrevLastDeclinedDate.Value),
				extra,
			})
		}
	}
	return weekRows, inviteRows, nil
}

func toPgDate(d model.Date) pgtype.Date {
	t, err := d.Time()
	if d.IsZero() || err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func fromPgDate(d pgtype.Date) model.Date {
	if !d.Valid {
		return ""
	}
	return model.DateOf(d.Time)
}

func toSnapshot(captured bool, d pgtype.Date) model.Snapshot {
	if !captured {
		return model.Snapshot{}
	}
	return model.Capture(fromPgDate(d))
}

// encodeExtra returns nil for an empty map so the column stays NULL
func encodeExtra(extra map[string]json.RawMessage) (any, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise extra fields: %w", err)
	}
	return data, nil
}

func decodeExtra(data []byte) (map[string]json.RawMessage, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var extra map[string]json.RawMessage
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse extra fields: %w", err)
	}
	return extra, nil
}
