package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/middleware"
	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/ksc-migration/collections-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type collectionHandlerEnv struct {
	db     *gorm.DB
	router *gin.Engine
	apiKey string
}

func setupCollectionHandlerEnv(t *testing.T) collectionHandlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.Uploader{},
		&models.User{},
		&models.Token{},
		&models.CollectionRecord{},
		&models.CollectionCode{},
		&models.HeaderMapping{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	orgID := uint64(3)
	uploader := &models.Uploader{Name: "Mwera Scanner", APIKey: "test-key", OrganizationID: &orgID}
	require.NoError(t, db.Create(uploader).Error)

	orgRepo := repository.NewOrganizationRepository(db)
	uploaderRepo := repository.NewUploaderRepository(db)
	userRepo := repository.NewUserRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	authService := services.NewAuthService(userRepo, uploaderRepo)
	ingestService := services.NewIngestService(orgRepo, collectionRepo)
	collectionService := services.NewCollectionService(collectionRepo)
	handler := NewCollectionHandler(collectionService, ingestService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	credentialed := middleware.RequireCredential(authService)
	r.POST("/collections", credentialed, handler.CreateRecord)
	r.PATCH("/collections/:id", credentialed, handler.UpdateRecord)
	r.GET("/reports/collections", credentialed, handler.Report)
	r.GET("/collection-codes", credentialed, handler.ListCodes)
	r.POST("/collection-codes", credentialed, handler.CreateCode)
	r.GET("/header-mappings", credentialed, handler.GetHeaderMappings)
	r.POST("/header-mappings", credentialed, handler.SaveHeaderMappings)

	return collectionHandlerEnv{db: db, router: r, apiKey: "test-key"}
}

func (env collectionHandlerEnv) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", env.apiKey)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestCollectionHandler_CreateRecord(t *testing.T) {
	env := setupCollectionHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/collections", map[string]any{
		"collection_code": "WK07",
		"s1":              "1",
		"s2":              "2024-02-14",
		"s3":              "7",
		"s4":              "John Mwita",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var record models.CollectionRecord
	require.NoError(t, env.db.First(&record).Error)

	// The single-record path runs the same pipeline as a batch: the
	// placeholder serial is synthesized and uploader defaults apply
	require.Equal(t, int64(20240214003007), *record.S1)
	require.Equal(t, "Mwera Scanner", *record.Source)
}

func TestCollectionHandler_CreateRecordRejectsInvalid(t *testing.T) {
	env := setupCollectionHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/collections", map[string]any{
		"collection_code": "WK07",
		"s1":              "20240214003007",
		"s2":              "2024-02-14",
		"s3":              "7",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.CollectionRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCollectionHandler_UpdateRecord(t *testing.T) {
	env := setupCollectionHandlerEnv(t)

	day := time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	name := "John"
	record := &models.CollectionRecord{CollectionCode: "WK07", S2: &day, S4: &name}
	require.NoError(t, env.db.Create(record).Error)

	w := env.do(t, http.MethodPatch, "/collections/1", map[string]any{
		"s4": "Jane",
		"s6": "1500.50",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.CollectionRecord
	require.NoError(t, env.db.First(&updated, record.ID).Error)
	require.Equal(t, "Jane", *updated.S4)
	require.Equal(t, 1500.50, *updated.S6)

	w = env.do(t, http.MethodPatch, "/collections/9999", map[string]any{"s4": "nobody"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/collections/1", map[string]any{"s2": "not a date"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCollectionHandler_Report(t *testing.T) {
	env := setupCollectionHandlerEnv(t)

	for _, day := range []time.Time{
		time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 20, 8, 0, 0, 0, time.UTC),
	} {
		d := day
		require.NoError(t, env.db.Create(&models.CollectionRecord{CollectionCode: "WK07", S2: &d}).Error)
	}

	// A date-only end bound covers that entire day
	w := env.do(t, http.MethodGet, "/reports/collections?start_date=2024-02-12&end_date=2024-02-14", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var records []models.CollectionRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	require.Equal(t, 14, records[0].S2.Day())

	w = env.do(t, http.MethodGet, "/reports/collections?end_date=bogus", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectionHandler_CodesAndHeaderMappings(t *testing.T) {
	env := setupCollectionHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/collection-codes", map[string]any{
		"column_name": "c1",
		"code":        "ZAKA",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/collection-codes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var codes []models.CollectionCode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &codes))
	require.Len(t, codes, 1)
	require.Equal(t, "c1", codes[0].ColumnName)

	w = env.do(t, http.MethodPost, "/header-mappings", map[string]string{"JINA": "s4"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/header-mappings?headers=JINA,NEVER%20SEEN", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mappings map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mappings))
	require.Equal(t, map[string]string{"JINA": "s4"}, mappings)
}
