package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pawtalk/pkg/surreal"
)

var ErrProfileNotFound = errors.New("pet profile not found")

// SurrealRepository reads pet profiles out of the SurrealDB the admin
// surface writes to: pets, timeline_events and letters tables.
type SurrealRepository struct {
	client *surreal.Client
}

func NewSurrealRepository(client *surreal.Client) *SurrealRepository {
	return &SurrealRepository{client: client}
}

func (r *SurrealRepository) ResolveBinding(ctx context.Context, userID string) (string, bool, error) {
	rows, err := r.client.QueryRows(ctx,
		`SELECT pet_id FROM pets WHERE user_id = $user_id LIMIT 1;`,
		map[string]interface{}{"user_id": userID})
	if err != nil {
		return "", false, fmt.Errorf("resolve binding for %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	petID := rowString(rows[0], "pet_id")
	if petID == "" {
		return "", false, nil
	}
	return petID, true, nil
}

func (r *SurrealRepository) LoadProfile(ctx context.Context, petID string) (*Profile, error) {
	pets, err := r.client.QueryRows(ctx,
		`SELECT pet_id, pet_name, breed, persona_key, slogan FROM pets WHERE pet_id = $pet_id LIMIT 1;`,
		map[string]interface{}{"pet_id": petID})
	if err != nil {
		return nil, fmt.Errorf("load pet %s: %w", petID, err)
	}
	if len(pets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, petID)
	}
	pet := pets[0]

	profile := &Profile{
		ID:         petID,
		Name:       rowString(pet, "pet_name"),
		Breed:      rowString(pet, "breed"),
		PersonaKey: rowString(pet, "persona_key"),
		Slogan:     rowString(pet, "slogan"),
	}

	events, err := r.client.QueryRows(ctx, `
		SELECT age, event_title, event_description FROM timeline_events
		WHERE pet_id = $pet_id AND is_visible = true
		ORDER BY display_order ASC;`,
		map[string]interface{}{"pet_id": petID})
	if err != nil {
		return nil, fmt.Errorf("load timeline for pet %s: %w", petID, err)
	}
	for _, row := range events {
		profile.Timeline = append(profile.Timeline, TimelineEvent{
			Age:         rowString(row, "age"),
			Title:       rowString(row, "event_title"),
			Description: rowString(row, "event_description"),
		})
	}

	letters, err := r.client.QueryRows(ctx,
		`SELECT letter_content FROM letters WHERE pet_id = $pet_id LIMIT 1;`,
		map[string]interface{}{"pet_id": petID})
	if err != nil {
		return nil, fmt.Errorf("load letter for pet %s: %w", petID, err)
	}
	if len(letters) > 0 {
		profile.Letter = rowString(letters[0], "letter_content")
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("pet %s: %w", petID, err)
	}

	return profile, nil
}

func rowString(row map[string]interface{}, key string) string {
	if v, ok := row[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
