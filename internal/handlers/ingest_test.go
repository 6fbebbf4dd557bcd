package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/ingest"
	"github.com/ksc-migration/collections-api/internal/middleware"
	"github.com/ksc-migration/collections-api/internal/models"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/ksc-migration/collections-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ingestHandlerEnv struct {
	db     *gorm.DB
	router *gin.Engine
	apiKey string
}

func setupIngestHandlerEnv(t *testing.T) ingestHandlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.Uploader{},
		&models.User{},
		&models.Token{},
		&models.CollectionRecord{},
		&models.HeaderMapping{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	orgID := uint64(3)
	require.NoError(t, db.Create(&models.Organization{Name: "Mwera"}).Error)
	uploader := &models.Uploader{Name: "Mwera Scanner", APIKey: "test-key", OrganizationID: &orgID}
	require.NoError(t, db.Create(uploader).Error)

	orgRepo := repository.NewOrganizationRepository(db)
	uploaderRepo := repository.NewUploaderRepository(db)
	userRepo := repository.NewUserRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	authService := services.NewAuthService(userRepo, uploaderRepo)
	ingestService := services.NewIngestService(orgRepo, collectionRepo)
	handler := NewIngestHandler(ingestService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	credentialed := middleware.RequireCredential(authService)
	r.POST("/upload", credentialed, handler.Upload)
	r.POST("/upload/headers", credentialed, handler.UploadHeaders)
	r.POST("/collections/bulk", credentialed, handler.BulkInsert)
	r.POST("/collections/validate", credentialed, handler.Validate)

	return ingestHandlerEnv{db: db, router: r, apiKey: "test-key"}
}

func (env ingestHandlerEnv) postRows(t *testing.T, path string, rows []ingest.Row) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(rows)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", env.apiKey)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func handlerBatchRow() ingest.Row {
	return ingest.Row{
		"collection_code": "WK07",
		"s1":              "20240214003007",
		"s2":              "2024-02-14",
		"s3":              "7",
		"s4":              "John Mwita",
	}
}

func TestIngestHandler_BulkInsert(t *testing.T) {
	env := setupIngestHandlerEnv(t)

	w := env.postRows(t, "/collections/bulk", []ingest.Row{handlerBatchRow(), handlerBatchRow()})
	require.Equal(t, http.StatusCreated, w.Code)

	var result services.BatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, services.BatchResult{Received: 2, Valid: 2, Inserted: 2}, result)

	var count int64
	require.NoError(t, env.db.Model(&models.CollectionRecord{}).Count(&count).Error)
	require.Equal(t, int64(2), count)

	// Uploader defaults landed on the stored rows
	var record models.CollectionRecord
	require.NoError(t, env.db.First(&record).Error)
	require.Equal(t, "Mwera Scanner", *record.Source)
	require.Equal(t, uint64(3), *record.OrganizationID)
}

func TestIngestHandler_BulkInsertRejectsWholeBatch(t *testing.T) {
	env := setupIngestHandlerEnv(t)

	bad := handlerBatchRow()
	delete(bad, "s4")

	w := env.postRows(t, "/collections/bulk", []ingest.Row{handlerBatchRow(), bad})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response struct {
		Code    string `json:"code"`
		Details struct {
			Received         int               `json:"received"`
			ValidationErrors []ingest.RowError `json:"validation_errors"`
			Rows             []ingest.Row      `json:"rows"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "VALIDATION_FAILED", response.Code)
	require.Equal(t, 2, response.Details.Received)
	require.Len(t, response.Details.ValidationErrors, 1)
	require.Equal(t, 1, response.Details.ValidationErrors[0].Index)
	require.Equal(t, "s4", response.Details.ValidationErrors[0].Errors[0].Field)

	// The rows come back as received, for correction and resubmission
	require.Len(t, response.Details.Rows, 2)

	var count int64
	require.NoError(t, env.db.Model(&models.CollectionRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestIngestHandler_Validate(t *testing.T) {
	env := setupIngestHandlerEnv(t)

	bad := handlerBatchRow()
	bad["s2"] = "not a date"

	w := env.postRows(t, "/collections/validate", []ingest.Row{handlerBatchRow(), bad})
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Received int               `json:"received"`
		Valid    int               `json:"valid"`
		Errors   []ingest.RowError `json:"errors"`
		Rows     []ingest.Row      `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 2, response.Received)
	require.Equal(t, 1, response.Valid)
	require.Len(t, response.Errors, 1)

	// Only the passing rows come back; the failing row is represented by
	// its error entry alone
	require.Len(t, response.Rows, 1)
	require.Equal(t, "John Mwita", response.Rows[0]["s4"])

	// Validation never writes
	var count int64
	require.NoError(t, env.db.Model(&models.CollectionRecord{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestIngestHandler_RequiresCredential(t *testing.T) {
	env := setupIngestHandlerEnv(t)

	body, err := json.Marshal([]ingest.Row{handlerBatchRow()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/collections/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIngestHandler_Upload(t *testing.T) {
	env := setupIngestHandlerEnv(t)

	csv := "Collection_Code,S1,S2,S3,S4\nWK07,1,2024-02-14,7,John Mwita\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "week7.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", env.apiKey)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var record models.CollectionRecord
	require.NoError(t, env.db.First(&record).Error)

	// Serial synthesized from date, uploader org, and sub-sequence
	require.Equal(t, int64(20240214003007), *record.S1)
}

func TestIngestHandler_UploadHeaders(t *testing.T) {
	env := setupIngestHandlerEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "members.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("S.No,JINA\n12,John\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload/headers", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", env.apiKey)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Identity     struct{ Type, Name string } `json:"identity"`
		Headers      []string                    `json:"headers"`
		SerialColumn string                      `json:"guessed_serial_column"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "uploader", response.Identity.Type)
	require.Equal(t, []string{"S.No", "JINA"}, response.Headers)
	require.Equal(t, "S.No", response.SerialColumn)

	// A preview never inserts
	var count int64
	require.NoError(t, env.db.Model(&models.CollectionRecord{}).Count(&count).Error)
	require.Zero(t, count)
}
