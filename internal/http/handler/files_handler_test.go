package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storeit/internal/model"
	"storeit/internal/service"
	serviceMocks "storeit/internal/service/mocks"
)

func testUser() *model.User {
	return &model.User{ID: uuid.New().String(), FullName: "Ada Lovelace", Email: "ada@example.com"}
}

func TestListFiles(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Get("/files", withUser(user), ListFiles(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.FileListResult{
			Items: []model.File{{ID: uuid.New().String(), Name: "notes.pdf", Type: model.TypeDocument}},
			Total: 1,
		}
		q := service.ListQuery{Search: "notes", Type: "document", Sort: "name-asc", Limit: 10, Offset: 0}
		mockSvc.On("List", mock.Anything, user, q).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/files?search=notes&type=document&sort=name-asc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.FileListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/files?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_LIMIT", res.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, user, mock.Anything).Return(nil, errors.New("db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Post("/files", withUser(user), UploadFile(mockSvc))

	multipartReq := func(t *testing.T, filename, content string) *http.Request {
		t.Helper()
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", filename)
		part.Write([]byte(content))
		writer.Close()

		req := httptest.NewRequest(http.MethodPost, "/files", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	t.Run("success", func(t *testing.T) {
		expected := &model.File{ID: uuid.New().String(), Name: "report.pdf", OwnerID: user.ID}
		mockSvc.On("Upload", mock.Anything, user, mock.Anything, "report.pdf", mock.Anything, mock.Anything).
			Return(expected, nil).Once()

		resp, _ := app.Test(multipartReq(t, "report.pdf", "hello world"))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.File
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("too large", func(t *testing.T) {
		mockSvc.On("Upload", mock.Anything, user, mock.Anything, "big.bin", mock.Anything, mock.Anything).
			Return(nil, service.ErrTooLarge).Once()

		resp, _ := app.Test(multipartReq(t, "big.bin", "xxxx"))

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_TOO_LARGE", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Get("/files/:id", withUser(user), GetFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expected := &model.File{ID: id, Name: "notes.txt"}
		mockSvc.On("Get", mock.Anything, user, id).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/files/not-a-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})

	t.Run("not visible", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, user, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Get("/files/:id/download", withUser(user), DownloadFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, user, id).Return("https://minio.local/presigned", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "https://minio.local/presigned", body["url"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("not visible", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("DownloadURL", mock.Anything, user, id).Return("", service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/files/"+id+"/download", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRenameFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Patch("/files/:id", withUser(user), RenameFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expected := &model.File{ID: id, Name: "renamed.txt"}
		mockSvc.On("Rename", mock.Anything, user, id, "renamed.txt").Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPatch, "/files/"+id,
			jsonBody(t, map[string]string{"name": "renamed.txt"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.File
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "renamed.txt", result.Name)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Rename", mock.Anything, user, id, "x.txt").Return(nil, service.ErrForbidden).Once()

		req := httptest.NewRequest(http.MethodPatch, "/files/"+id,
			jsonBody(t, map[string]string{"name": "x.txt"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FORBIDDEN", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Rename", mock.Anything, user, id, "").Return(nil, service.ErrNameRequired).Once()

		req := httptest.NewRequest(http.MethodPatch, "/files/"+id,
			jsonBody(t, map[string]string{}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestShareFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Post("/files/:id/share", withUser(user), ShareFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expected := &model.File{ID: id, SharedWith: []string{"bob@example.com", "carol@example.com"}}
		mockSvc.On("Share", mock.Anything, user, id, "bob@example.com, carol@example.com").
			Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/files/"+id+"/share",
			jsonBody(t, map[string]string{"emails": "bob@example.com, carol@example.com"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.File
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.SharedWith, 2)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Share", mock.Anything, user, id, "bob@example.com").
			Return(nil, service.ErrForbidden).Once()

		req := httptest.NewRequest(http.MethodPost, "/files/"+id+"/share",
			jsonBody(t, map[string]string{"emails": "bob@example.com"}))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUnshareFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Delete("/files/:id/share", withUser(user), UnshareFile(mockSvc))

	id := uuid.New().String()
	expected := &model.File{ID: id, SharedWith: []string{}}
	mockSvc.On("Unshare", mock.Anything, user, id, "bob@example.com").Return(expected, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/files/"+id+"/share",
		jsonBody(t, map[string]string{"email": "bob@example.com"}))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestDeleteFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Delete("/files/:id", withUser(user), DeleteFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, user, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, user, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, user, id).Return(service.ErrForbidden).Once()

		req := httptest.NewRequest(http.MethodDelete, "/files/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestStorageUsage(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	user := testUser()
	app := fiber.New()
	app.Get("/usage", withUser(user), StorageUsage(mockSvc))

	expected := &service.UsageSummary{
		UsedBytes:  2048,
		UsedHuman:  "2.0 KB",
		TotalFiles: 2,
		Buckets: []service.UsageBucket{
			{Type: model.TypeDocument, Count: 2, TotalBytes: 2048, TotalHuman: "2.0 KB"},
		},
	}
	mockSvc.On("Usage", mock.Anything, user).Return(expected, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/usage", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.UsageSummary
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, int64(2048), result.UsedBytes)
	assert.Equal(t, 2, result.TotalFiles)
	mockSvc.AssertExpectations(t)
}
