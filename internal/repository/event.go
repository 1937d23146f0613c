package repository

import (
	"context"
	"errors"

	"github.com/nextdink/api/internal/database"
	"github.com/nextdink/api/internal/model"
)

// maxUpdateAttempts bounds the optimistic-concurrency retry loop in
// UpdateAtomic. Each attempt re-reads the aggregate, so a conflict only
// survives this many straight lost races.
const maxUpdateAttempts = 5

// EventRepository handles event aggregate data access. The whole event,
// registrations included, lives in one document guarded by a revision
// counter.
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	vars := map[string]interface{}{
		"code":          event.Code,
		"title":         event.Title,
		"date":          event.Date,
		"end_time":      event.EndTime,
		"team_size":     event.TeamSize,
		"max_teams":     event.MaxTeams,
		"visibility":    string(event.Visibility),
		"join_type":     string(event.JoinType),
		"status":        string(event.Status),
		"owner_id":      event.OwnerID,
		"registrations": registrationsToMaps(event.Registrations),
	}

	// Build the SET clause dynamically; SurrealDB option<T> fields want
	// NONE rather than NULL, so optional fields are added only when set.
	setClause := `
		code = $code,
		title = $title,
		date = $date,
		end_time = $end_time,
		team_size = $team_size,
		max_teams = $max_teams,
		visibility = $visibility,
		join_type = $join_type,
		status = $status,
		owner_id = $owner_id,
		registrations = $registrations,
		admin_ids = [],
		invited_user_ids = [],
		declined_user_ids = [],
		revision = 0,
		created_on = time::now(),
		updated_on = time::now()`

	if event.Description != nil {
		setClause += ", description = $description"
		vars["description"] = *event.Description
	}
	if event.Location != nil {
		setClause += ", location = $location"
		vars["location"] = *event.Location
	}

	query := "CREATE event SET " + setClause

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return database.ErrQuery
	}
	created, ok := records[0].(map[string]interface{})
	if !ok {
		return database.ErrQuery
	}

	event.ID = extractRecordID(created["id"])
	event.Revision = getInt(created, "revision")
	event.CreatedOn = getTime(created, "created_on")
	event.UpdatedOn = getTime(created, "updated_on")
	return nil
}

// Get retrieves an event by ID. Returns (nil, nil) when no such event
// exists.
func (r *EventRepository) Get(ctx context.Context, eventID string) (*model.Event, error) {
	query := `SELECT * FROM type::record($event_id)`
	vars := map[string]interface{}{"event_id": eventID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseEventResult(result)
}

// GetByCode retrieves an active event by its public code. Canceled
// events release their codes, so the lookup is scoped to active status.
func (r *EventRepository) GetByCode(ctx context.Context, code string) (*model.Event, error) {
	query := `SELECT * FROM event WHERE code = $code AND status = 'active' LIMIT 1`
	vars := map[string]interface{}{"code": code}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseEventResult(result)
}

// CodeInUse reports whether any active event already carries the code.
func (r *EventRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	query := `SELECT count() AS count FROM event WHERE code = $code AND status = 'active' GROUP ALL`
	vars := map[string]interface{}{"code": code}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if m, ok := result.(map[string]interface{}); ok {
		return extractCountValue(m["count"]) > 0, nil
	}
	return false, nil
}

// UpdateAtomic runs fn inside a read-validate-mutate-write cycle. fn
// receives the current aggregate state and mutates it in place; the
// write only lands if the stored revision still matches the one read.
// On a lost race the cycle restarts with fresh state, up to
// maxUpdateAttempts times, after which database.ErrConflict surfaces.
//
// An error returned by fn aborts the cycle without writing.
func (r *EventRepository) UpdateAtomic(ctx context.Context, eventID string, fn func(*model.Event) error) (*model.Event, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		event, err := r.Get(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, database.ErrNotFound
		}

		if err := fn(event); err != nil {
			return nil, err
		}

		updated, err := r.writeAggregate(ctx, event)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, database.ErrConflict) {
			return nil, err
		}
	}
	return nil, database.ErrConflict
}

// writeAggregate persists the full aggregate state conditioned on the
// revision it was read at. No matching record means the revision moved
// underneath us and the caller must retry.
func (r *EventRepository) writeAggregate(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `UPDATE event SET
		code = $code,
		title = $title,
		description = $description,
		location = $location,
		date = $date,
		end_time = $end_time,
		max_teams = $max_teams,
		visibility = $visibility,
		join_type = $join_type,
		status = $status,
		admin_ids = $admin_ids,
		registrations = $registrations,
		invited_user_ids = $invited_user_ids,
		declined_user_ids = $declined_user_ids,
		revision = $next_revision,
		updated_on = time::now()
	WHERE id = type::record($event_id) AND revision = $revision
	RETURN AFTER`

	vars := map[string]interface{}{
		"event_id":          event.ID,
		"code":              event.Code,
		"title":             event.Title,
		"description":       optionalString(event.Description),
		"location":          optionalString(event.Location),
		"date":              event.Date,
		"end_time":          event.EndTime,
		"max_teams":         event.MaxTeams,
		"visibility":        string(event.Visibility),
		"join_type":         string(event.JoinType),
		"status":            string(event.Status),
		"admin_ids":         stringSliceVar(event.AdminIDs),
		"registrations":     registrationsToMaps(event.Registrations),
		"invited_user_ids":  stringSliceVar(event.InvitedUserIDs),
		"declined_user_ids": stringSliceVar(event.DeclinedUserIDs),
		"revision":          event.Revision,
		"next_revision":     event.Revision + 1,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// No row matched the revision guard.
			return nil, database.ErrConflict
		}
		return nil, err
	}

	return parseEventResult(result)
}

// Delete removes an event document outright.
func (r *EventRepository) Delete(ctx context.Context, eventID string) error {
	query := `DELETE event WHERE id = type::record($event_id)`
	vars := map[string]interface{}{"event_id": eventID}

	return r.db.Execute(ctx, query, vars)
}

// ListByOwner retrieves events owned by the user, soonest first.
func (r *EventRepository) ListByOwner(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE owner_id = $user_id ORDER BY date ASC`
	return r.list(ctx, query, map[string]interface{}{"user_id": userID})
}

// ListByAdmin retrieves events where the user is a delegated admin.
func (r *EventRepository) ListByAdmin(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE admin_ids CONTAINS $user_id ORDER BY date ASC`
	return r.list(ctx, query, map[string]interface{}{"user_id": userID})
}

// ListByParticipant retrieves events where the user occupies a slot in
// any registration, joined or waitlisted.
func (r *EventRepository) ListByParticipant(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE registrations.members.user_id CONTAINS $user_id ORDER BY date ASC`
	return r.list(ctx, query, map[string]interface{}{"user_id": userID})
}

// ListByInvited retrieves events holding a pending invitation for the user.
func (r *EventRepository) ListByInvited(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE invited_user_ids CONTAINS $user_id ORDER BY date ASC`
	return r.list(ctx, query, map[string]interface{}{"user_id": userID})
}

// ListByDeclined retrieves events the user has declined.
func (r *EventRepository) ListByDeclined(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `SELECT * FROM event WHERE declined_user_ids CONTAINS $user_id ORDER BY date ASC`
	return r.list(ctx, query, map[string]interface{}{"user_id": userID})
}

func (r *EventRepository) list(ctx context.Context, query string, vars map[string]interface{}) ([]*model.Event, error) {
	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records, ok := extractQueryResults(result)
	if !ok {
		return []*model.Event{}, nil
	}

	events := make([]*model.Event, 0, len(records))
	for _, record := range records {
		event, err := parseEventResult(record)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// parseEventResult converts a SurrealDB record map into a model.Event.
func parseEventResult(result interface{}) (*model.Event, error) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil, database.ErrQuery
	}

	event := &model.Event{
		ID:              extractRecordID(m["id"]),
		Code:            getString(m, "code"),
		Title:           getString(m, "title"),
		Description:     getStringPtr(m, "description"),
		Location:        getStringPtr(m, "location"),
		Date:            getTime(m, "date"),
		EndTime:         getTime(m, "end_time"),
		TeamSize:        getInt(m, "team_size"),
		MaxTeams:        getInt(m, "max_teams"),
		Visibility:      model.EventVisibility(getString(m, "visibility")),
		JoinType:        model.JoinType(getString(m, "join_type")),
		Status:          model.EventStatus(getString(m, "status")),
		OwnerID:         getString(m, "owner_id"),
		AdminIDs:        getStringSlice(m, "admin_ids"),
		InvitedUserIDs:  getStringSlice(m, "invited_user_ids"),
		DeclinedUserIDs: getStringSlice(m, "declined_user_ids"),
		Revision:        getInt(m, "revision"),
		CreatedOn:       getTime(m, "created_on"),
		UpdatedOn:       getTime(m, "updated_on"),
	}

	for _, regMap := range getMapSlice(m, "registrations") {
		reg := model.TeamRegistration{
			ID:        getString(regMap, "id"),
			CreatedBy: getString(regMap, "created_by"),
			CreatedOn: getTime(regMap, "created_on"),
		}
		for _, memberMap := range getMapSlice(regMap, "members") {
			reg.Members = append(reg.Members, model.TeamMember{
				Type:        model.SlotType(getString(memberMap, "type")),
				UserID:      getString(memberMap, "user_id"),
				DisplayName: getString(memberMap, "display_name"),
				PhotoURL:    getString(memberMap, "photo_url"),
			})
		}
		event.Registrations = append(event.Registrations, reg)
	}

	return event, nil
}

// registrationsToMaps serializes the roster for storage.
func registrationsToMaps(regs []model.TeamRegistration) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(regs))
	for _, reg := range regs {
		members := make([]map[string]interface{}, 0, len(reg.Members))
		for _, member := range reg.Members {
			members = append(members, map[string]interface{}{
				"type":         string(member.Type),
				"user_id":      member.UserID,
				"display_name": member.DisplayName,
				"photo_url":    member.PhotoURL,
			})
		}
		out = append(out, map[string]interface{}{
			"id":         reg.ID,
			"created_by": reg.CreatedBy,
			"created_on": reg.CreatedOn,
			"members":    members,
		})
	}
	return out
}

func optionalString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringSliceVar normalizes nil slices so stored fields stay arrays.
func stringSliceVar(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
