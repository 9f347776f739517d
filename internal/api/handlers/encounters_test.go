package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oscesim/consult-service/internal/api/handlers"
	"github.com/oscesim/consult-service/internal/core/docdb"
	"github.com/oscesim/consult-service/internal/domain/models"
	"github.com/oscesim/consult-service/internal/mocks"
	"github.com/oscesim/consult-service/internal/report"
)

func setupEncountersRouter(collection *mocks.MockEncountersCollection) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
	})

	h := handlers.NewEncountersHandler(collection, report.NewRenderer())
	r.GET("/encounters", h.List)
	r.GET("/encounters/:encounterId", h.Get)
	r.GET("/encounters/:encounterId/report.pdf", h.Report)
	return r
}

func archivedEncounter() *models.Encounter {
	return &models.Encounter{
		ID:     "enc-1",
		UserID: "user-1",
		Scenario: &models.Scenario{
			Persona:   models.Persona{Name: "Li Wei", Age: 45},
			Complaint: "abdominal discomfort",
		},
		Feedback: &models.Feedback{
			Result: &models.FeedbackResult{Overall: 52},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestListEncounters(t *testing.T) {
	collection := &mocks.MockEncountersCollection{}
	collection.On("Count", mock.Anything, "user-1").Return(int64(1), nil)
	collection.On("List", mock.Anything, mock.MatchedBy(func(opts *docdb.ListEncountersOptions) bool {
		return opts.UserID == "user-1" && opts.Limit == 20
	})).Return([]*models.Encounter{archivedEncounter()}, nil)
	router := setupEncountersRouter(collection)

	req := httptest.NewRequest(http.MethodGet, "/encounters", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Li Wei")
	assert.Contains(t, w.Body.String(), `"overall":52`)
	collection.AssertExpectations(t)
}

func TestGetEncounter_NotFound(t *testing.T) {
	collection := &mocks.MockEncountersCollection{}
	collection.On("Get", mock.Anything, "user-1", "missing").Return(nil, nil)
	router := setupEncountersRouter(collection)

	req := httptest.NewRequest(http.MethodGet, "/encounters/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEncounter_Success(t *testing.T) {
	collection := &mocks.MockEncountersCollection{}
	collection.On("Get", mock.Anything, "user-1", "enc-1").Return(archivedEncounter(), nil)
	router := setupEncountersRouter(collection)

	req := httptest.NewRequest(http.MethodGet, "/encounters/enc-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "abdominal discomfort")
}
