package destinationController_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"

	destinationController "roamready/controllers/destination"
	"roamready/models"
	destinationRoutes "roamready/routers/destinationRoutes"
	"roamready/store"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory DestinationStore so handler tests can run
// without a database. forcedErr, when set, fails every call.
type fakeStore struct {
	destinations []models.Destination
	users        map[primitive.ObjectID]models.UserRef
	forcedErr    error
}

func (f *fakeStore) Create(_ context.Context, d models.Destination) (models.Destination, error) {
	if f.forcedErr != nil {
		return models.Destination{}, f.forcedErr
	}
	if d.DestinationName == "" || d.Location == "" || d.Description == "" {
		return models.Destination{}, errors.Wrap(store.ErrValidation, "missing required fields")
	}
	for _, existing := range f.destinations {
		if existing.DestinationName == d.DestinationName {
			return models.Destination{}, errors.Wrap(store.ErrDuplicate, "name taken")
		}
	}
	d.ID = primitive.NewObjectID()
	d.UserAverageRating = 0
	d.Reviews = []models.Review{}
	f.destinations = append(f.destinations, d)
	return d, nil
}

func (f *fakeStore) GetByName(_ context.Context, fragment string) (models.Destination, error) {
	if f.forcedErr != nil {
		return models.Destination{}, f.forcedErr
	}
	for _, d := range f.destinations {
		if strings.Contains(strings.ToLower(d.DestinationName), strings.ToLower(fragment)) {
			return d, nil
		}
	}
	return models.Destination{}, errors.Wrap(store.ErrNotFound, "no match")
}

func (f *fakeStore) ListAll(context.Context) ([]models.Destination, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	return append([]models.Destination{}, f.destinations...), nil
}

func (f *fakeStore) ListByLocation(_ context.Context, fragment string) ([]models.Destination, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	found := []models.Destination{}
	for _, d := range f.destinations {
		if strings.Contains(strings.ToLower(d.Location), strings.ToLower(fragment)) {
			found = append(found, d)
		}
	}
	return found, nil
}

func (f *fakeStore) ListByRatingDescending(context.Context) ([]models.Destination, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	found := append([]models.Destination{}, f.destinations...)
	sort.SliceStable(found, func(i, j int) bool { return found[i].Rating > found[j].Rating })
	return found, nil
}

func (f *fakeStore) ListByMinimumRating(_ context.Context, threshold string) ([]models.Destination, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	min, err := strconv.ParseFloat(threshold, 64)
	if err != nil {
		return nil, errors.Wrap(store.ErrValidation, "not a number")
	}
	found := []models.Destination{}
	for _, d := range f.destinations {
		if d.Rating >= min {
			found = append(found, d)
		}
	}
	return found, nil
}

func (f *fakeStore) Update(_ context.Context, id primitive.ObjectID, u store.DestinationUpdate) (models.Destination, error) {
	if f.forcedErr != nil {
		return models.Destination{}, f.forcedErr
	}
	for i, d := range f.destinations {
		if d.ID == id {
			if u.DestinationName != nil {
				d.DestinationName = *u.DestinationName
			}
			if u.Location != nil {
				d.Location = *u.Location
			}
			if u.Description != nil {
				d.Description = *u.Description
			}
			if u.Rating != nil {
				d.Rating = *u.Rating
			}
			f.destinations[i] = d
			return d, nil
		}
	}
	return models.Destination{}, errors.Wrap(store.ErrNotFound, "no match")
}

func (f *fakeStore) Delete(_ context.Context, id primitive.ObjectID) (models.Destination, error) {
	if f.forcedErr != nil {
		return models.Destination{}, f.forcedErr
	}
	for i, d := range f.destinations {
		if d.ID == id {
			f.destinations = append(f.destinations[:i], f.destinations[i+1:]...)
			return d, nil
		}
	}
	return models.Destination{}, errors.Wrap(store.ErrNotFound, "no match")
}

func (f *fakeStore) AppendReview(_ context.Context, id primitive.ObjectID, review models.Review) (models.Destination, error) {
	if f.forcedErr != nil {
		return models.Destination{}, f.forcedErr
	}
	for i, d := range f.destinations {
		if d.ID == id {
			d.Reviews = append(d.Reviews, review)
			var sum float64
			for _, r := range d.Reviews {
				sum += r.UserRating
			}
			d.UserAverageRating = math.Round(sum/float64(len(d.Reviews))*100) / 100
			f.destinations[i] = d
			return d, nil
		}
	}
	return models.Destination{}, errors.Wrap(store.ErrNotFound, "no match")
}

func (f *fakeStore) ReviewsWithUserDetail(_ context.Context, id primitive.ObjectID) ([]models.HydratedReview, error) {
	if f.forcedErr != nil {
		return nil, f.forcedErr
	}
	for _, d := range f.destinations {
		if d.ID == id {
			reviews := d.Reviews
			if len(reviews) > 3 {
				reviews = reviews[:3]
			}
			hydrated := make([]models.HydratedReview, 0, len(reviews))
			for _, r := range reviews {
				h := models.HydratedReview{Text: r.Text, UserRating: r.UserRating}
				if ref, ok := f.users[r.User]; ok {
					h.User = &ref
				}
				hydrated = append(hydrated, h)
			}
			return hydrated, nil
		}
	}
	return nil, errors.Wrap(store.ErrNotFound, "no match")
}

func newTestApp(f *fakeStore) *fiber.App {
	app := fiber.New()
	destinationRoutes.SetupDestinationRoutes(app, destinationController.New(f))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func seedDestination(t *testing.T, f *fakeStore, name, location string, rating float64) models.Destination {
	t.Helper()
	d, err := f.Create(context.Background(), models.Destination{
		DestinationName: name,
		Location:        location,
		Description:     "a place worth seeing",
		Rating:          rating,
	})
	require.NoError(t, err)
	return d
}

func TestCreateDestination(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)

	status, payload := doJSON(t, app, http.MethodPost, "/destinations", fiber.Map{
		"destinationName": "Kyoto",
		"location":        "Japan",
		"description":     "Temples and gardens",
		"rating":          4.5,
	})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"Destination added"`, string(payload["message"]))

	var created models.Destination
	require.NoError(t, json.Unmarshal(payload["newDestination"], &created))
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Kyoto", created.DestinationName)
	assert.Zero(t, created.UserAverageRating)
	assert.Empty(t, created.Reviews)
}

func TestCreateDestinationMissingFields(t *testing.T) {
	app := newTestApp(&fakeStore{})

	status, payload := doJSON(t, app, http.MethodPost, "/destinations", fiber.Map{
		"destinationName": "Nowhere",
	})
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Failed to add destination"`, string(payload["error"]))
}

func TestCreateDestinationDuplicateName(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	seedDestination(t, f, "Kyoto", "Japan", 4)

	status, payload := doJSON(t, app, http.MethodPost, "/destinations", fiber.Map{
		"destinationName": "Kyoto",
		"location":        "Japan",
		"description":     "Duplicate",
	})
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Failed to add destination"`, string(payload["error"]))
	assert.Len(t, f.destinations, 1)
}

func TestGetAllDestinations(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)

	status, payload := doJSON(t, app, http.MethodGet, "/destinations", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Database is empty!"`, string(payload["error"]))

	seedDestination(t, f, "Kyoto", "Japan", 4)
	seedDestination(t, f, "Lisbon", "Portugal", 3)

	status, payload = doJSON(t, app, http.MethodGet, "/destinations", nil)
	require.Equal(t, http.StatusOK, status)
	var found []models.Destination
	require.NoError(t, json.Unmarshal(payload["foundDestinations"], &found))
	assert.Len(t, found, 2)
}

func TestGetDestinationsByLocation(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	seedDestination(t, f, "Kyoto", "Japan", 4)
	seedDestination(t, f, "Osaka", "Japan", 3)
	seedDestination(t, f, "Lisbon", "Portugal", 5)

	status, payload := doJSON(t, app, http.MethodGet, "/destinations/location/japan", nil)
	require.Equal(t, http.StatusOK, status)
	var found []models.Destination
	require.NoError(t, json.Unmarshal(payload["foundDestination"], &found))
	assert.Len(t, found, 2)

	status, payload = doJSON(t, app, http.MethodGet, "/destinations/location/atlantis", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"No destinations found for this location"`, string(payload["error"]))
}

func TestGetDestinationsByRatingDescending(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	seedDestination(t, f, "Two", "A", 2)
	seedDestination(t, f, "Five", "B", 5)
	seedDestination(t, f, "Three", "C", 3)

	status, payload := doJSON(t, app, http.MethodGet, "/destinations/rating", nil)
	require.Equal(t, http.StatusOK, status)

	var found []models.Destination
	require.NoError(t, json.Unmarshal(payload["foundDestinations"], &found))
	require.Len(t, found, 3)
	assert.Equal(t, []float64{5, 3, 2}, []float64{found[0].Rating, found[1].Rating, found[2].Rating})
}

func TestFilterDestinationsByRating(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	seedDestination(t, f, "Two", "A", 2)
	seedDestination(t, f, "Three", "B", 3)
	seedDestination(t, f, "Five", "C", 5)

	status, payload := doJSON(t, app, http.MethodGet, "/destinations/filter/3", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"Filtered destinations are:"`, string(payload["message"]))

	var found []models.Destination
	require.NoError(t, json.Unmarshal(payload["filteredDestinations"], &found))
	require.Len(t, found, 2)
	for _, d := range found {
		assert.GreaterOrEqual(t, d.Rating, 3.0)
	}
}

func TestFilterDestinationsByRatingEmptyIsStill200(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	seedDestination(t, f, "Two", "A", 2)

	status, payload := doJSON(t, app, http.MethodGet, "/destinations/filter/4.5", nil)
	require.Equal(t, http.StatusOK, status)

	var found []models.Destination
	require.NoError(t, json.Unmarshal(payload["filteredDestinations"], &found))
	assert.Empty(t, found)
}

func TestFilterDestinationsByRatingNonNumeric(t *testing.T) {
	app := newTestApp(&fakeStore{})

	status, payload := doJSON(t, app, http.MethodGet, "/destinations/filter/high", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Unable to filter by rating"`, string(payload["error"]))
}

func TestUpdateDestination(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	d := seedDestination(t, f, "Kyoto", "Japan", 4)

	status, payload := doJSON(t, app, http.MethodPost, "/destinations/"+d.ID.Hex(), fiber.Map{
		"rating": 5,
	})
	require.Equal(t, http.StatusOK, status)

	var updated models.Destination
	require.NoError(t, json.Unmarshal(payload["updatedDestination"], &updated))
	assert.Equal(t, 5.0, updated.Rating)
	assert.Equal(t, "Kyoto", updated.DestinationName)
}

func TestUpdateDestinationBadID(t *testing.T) {
	app := newTestApp(&fakeStore{})

	status, payload := doJSON(t, app, http.MethodPost, "/destinations/not-a-hex-id", fiber.Map{
		"rating": 5,
	})
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Unable to find destination to be updated"`, string(payload["error"]))
}

func TestDeleteDestination(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	d := seedDestination(t, f, "Kyoto", "Japan", 4)

	status, payload := doJSON(t, app, http.MethodDelete, "/destinations/"+d.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"Deleted destination:"`, string(payload["message"]))

	var deleted models.Destination
	require.NoError(t, json.Unmarshal(payload["deletedDestination"], &deleted))
	assert.Equal(t, d.ID, deleted.ID)

	status, payload = doJSON(t, app, http.MethodDelete, "/destinations/"+d.ID.Hex(), nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Unable to find the destination"`, string(payload["error"]))
}

func TestAddDestinationReview(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	d := seedDestination(t, f, "Kyoto", "Japan", 4)

	for _, rating := range []float64{4, 5, 3} {
		status, _ := doJSON(t, app, http.MethodPost, "/destinations/"+d.ID.Hex()+"/reviews", fiber.Map{
			"text":       "nice",
			"userRating": rating,
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, payload := doJSON(t, app, http.MethodPost, "/destinations/"+d.ID.Hex()+"/reviews", fiber.Map{
		"text":       "ok",
		"userRating": 2,
	})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"Review successfully added"`, string(payload["message"]))

	var updated models.Destination
	require.NoError(t, json.Unmarshal(payload["updatedDestination"], &updated))
	assert.Len(t, updated.Reviews, 4)
	assert.Equal(t, 3.5, updated.UserAverageRating)
}

func TestAddDestinationReviewMissingRating(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	d := seedDestination(t, f, "Kyoto", "Japan", 4)

	status, payload := doJSON(t, app, http.MethodPost, "/destinations/"+d.ID.Hex()+"/reviews", fiber.Map{
		"text": "no rating here",
	})
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Failed to add review"`, string(payload["error"]))
}

func TestGetDestinationReviewsCapsAtThree(t *testing.T) {
	userID := primitive.NewObjectID()
	f := &fakeStore{users: map[primitive.ObjectID]models.UserRef{
		userID: {Username: "wanderer", ProfilePicture: models.DefaultProfilePicture},
	}}
	app := newTestApp(f)
	d := seedDestination(t, f, "Kyoto", "Japan", 4)

	for i := 0; i < 5; i++ {
		_, err := f.AppendReview(context.Background(), d.ID, models.Review{
			User:       userID,
			Text:       "review " + strconv.Itoa(i),
			UserRating: float64(i),
		})
		require.NoError(t, err)
	}

	status, payload := doJSON(t, app, http.MethodGet, "/destinations/"+d.ID.Hex()+"/reviews", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `"Reviews for destination:"`, string(payload["message"]))

	var reviews []models.HydratedReview
	require.NoError(t, json.Unmarshal(payload["reviews"], &reviews))
	require.Len(t, reviews, 3)
	for i, r := range reviews {
		assert.Equal(t, "review "+strconv.Itoa(i), r.Text)
		require.NotNil(t, r.User)
		assert.Equal(t, "wanderer", r.User.Username)
		assert.Equal(t, models.DefaultProfilePicture, r.User.ProfilePicture)
	}
}

func TestGetDestinationByNameIsRoutedAfterStaticPaths(t *testing.T) {
	f := &fakeStore{}
	app := newTestApp(f)
	seedDestination(t, f, "Great Rating Plains", "Nowhere", 1)

	// The catch-all must not swallow the static /rating route.
	status, payload := doJSON(t, app, http.MethodGet, "/destinations/rating", nil)
	require.Equal(t, http.StatusOK, status)
	_, isList := payload["foundDestinations"]
	assert.True(t, isList, "expected the rating list, not a by-name lookup")

	status, payload = doJSON(t, app, http.MethodGet, "/destinations/plains", nil)
	require.Equal(t, http.StatusOK, status)

	var found models.Destination
	require.NoError(t, json.Unmarshal(payload["foundDestination"], &found))
	assert.Equal(t, "Great Rating Plains", found.DestinationName)

	status, payload = doJSON(t, app, http.MethodGet, "/destinations/atlantis", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `"Destination not found"`, string(payload["error"]))
}

func TestStoreOutageMapsTo500(t *testing.T) {
	f := &fakeStore{forcedErr: errors.Wrap(store.ErrUnavailable, "connection lost")}
	app := newTestApp(f)

	status, payload := doJSON(t, app, http.MethodGet, "/destinations", nil)
	require.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `"Failed to fetch data"`, string(payload["error"]))
}
