package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lynx-thelearner/BE-Wisata/internal/auth"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

type catalogFixture struct {
	app        *fiber.App
	categories *memLookups
	tags       *memLookups
	wisata     *memWisata
	blobs      memBlobs
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	categories := newMemLookups(domain.LookupCategory)
	tags := newMemLookups(domain.LookupTag)
	ctx := context.Background()
	require.NoError(t, categories.Create(ctx, &domain.Lookup{Name: "Pantai"}))
	require.NoError(t, tags.Create(ctx, &domain.Lookup{Name: "keluarga"}))
	require.NoError(t, tags.Create(ctx, &domain.Lookup{Name: "alam"}))

	f := &catalogFixture{
		app:        newTestApp(),
		categories: categories,
		tags:       tags,
		wisata:     newMemWisata(tags),
		blobs:      memBlobs{},
	}
	svc := service.NewWisataService(service.WisataDependencies{
		WisataRepo:     f.wisata,
		ImageRepo:      newMemImages(),
		CategoryRepo:   categories,
		Blobs:          f.blobs,
		PublishedCache: noCache{},
		Tx:             noTx{},
		MaxUploadBytes: 1 << 20,
	})
	h := NewWisataHandler(svc)
	f.app.Get("/wisata/:id", h.Get)
	f.app.Post("/wisata", h.Create)
	f.app.Patch("/wisata/:id", h.Update)
	f.app.Post("/wisata/:id/images", h.UploadImage)
	f.app.Delete("/wisata/images/:id", h.DeleteImage)
	return f
}

const createWisataBody = `{
	"nama_wisata": "Pantai Lamaru",
	"deskripsi": "Pantai berpasir putih",
	"lokasi": "Balikpapan",
	"ticket_price": "15000.00",
	"open_time": "07:00",
	"close_time": "18:00",
	"status": "published",
	"category_id": 1,
	"tag_id": [1, 2]
}`

func tagsOf(body map[string]any) []any {
	data, _ := body["data"].(map[string]any)
	tags, _ := data["tags"].([]any)
	return tags
}

func TestWisataHandlerTagBinding(t *testing.T) {
	f := newCatalogFixture(t)

	status, body := do(t, f.app, http.MethodPost, "/wisata", createWisataBody)
	require.Equal(t, http.StatusCreated, status, body)
	assert.ElementsMatch(t, []any{"keluarga", "alam"}, tagsOf(body))

	status, body = do(t, f.app, http.MethodPatch, "/wisata/1", `{"lokasi": "Balikpapan Timur"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, tagsOf(body), 2, "omitted tag_id keeps membership")

	status, body = do(t, f.app, http.MethodPatch, "/wisata/1", `{"tag_id": []}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Empty(t, tagsOf(body), "empty tag_id clears membership")
	assert.NotNil(t, tagsOf(body))

	status, body = do(t, f.app, http.MethodGet, "/wisata/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, tagsOf(body))
}

func TestWisataHandlerCreateValidation(t *testing.T) {
	f := newCatalogFixture(t)

	status, body := do(t, f.app, http.MethodPost, "/wisata", `{"nama_wisata": "x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errCode(body))

	status, body = do(t, f.app, http.MethodPatch, "/wisata/abc", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errCode(body))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, app *fiber.App, path, field, filename, contentType string, data []byte) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestWisataHandlerUploadImage(t *testing.T) {
	f := newCatalogFixture(t)
	status, _ := do(t, f.app, http.MethodPost, "/wisata", createWisataBody)
	require.Equal(t, http.StatusCreated, status)
	data := pngBytes(t)

	status, body := upload(t, f.app, "/wisata/1/images", "file", "cover.png", "image/png", data)
	require.Equal(t, http.StatusCreated, status, body)
	img, _ := body["data"].(map[string]any)
	assert.Equal(t, true, img["is_primary"])
	assert.Contains(t, img["image_url"], "/static/")
	assert.Len(t, f.blobs, 1)

	status, body = upload(t, f.app, "/wisata/1/images", "file", "second.png", "image/png", data)
	require.Equal(t, http.StatusCreated, status, body)
	img, _ = body["data"].(map[string]any)
	assert.Equal(t, false, img["is_primary"])

	status, body = do(t, f.app, http.MethodGet, "/wisata/1", "")
	require.Equal(t, http.StatusOK, status)
	site, _ := body["data"].(map[string]any)
	assert.Len(t, site["images"], 2)
	assert.NotEmpty(t, site["image_cover"])
}

func TestWisataHandlerUploadRejections(t *testing.T) {
	f := newCatalogFixture(t)
	status, _ := do(t, f.app, http.MethodPost, "/wisata", createWisataBody)
	require.Equal(t, http.StatusCreated, status)
	data := pngBytes(t)

	status, body := upload(t, f.app, "/wisata/1/images", "image", "cover.png", "image/png", data)
	assert.Equal(t, http.StatusBadRequest, status, "wrong field name")
	assert.Equal(t, apperrors.CodeValidation, errCode(body))

	status, body = upload(t, f.app, "/wisata/1/images", "file", "cover.jpg", "image/jpeg", data)
	assert.Equal(t, http.StatusBadRequest, status, "png body declared as jpeg")
	assert.Equal(t, apperrors.CodeValidation, errCode(body))

	status, body = upload(t, f.app, "/wisata/1/images", "file", "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errCode(body))

	status, body = upload(t, f.app, "/wisata/99/images", "file", "cover.png", "image/png", data)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, errCode(body))

	assert.Empty(t, f.blobs, "rejected uploads leave no blobs")
}

func withPrincipal(user *domain.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth.SetPrincipal(c, &auth.Principal{User: user})
		return c.Next()
	}
}

func newReviewApp(t *testing.T, actor *domain.User) (*fiber.App, *memUserReviews, *memEditorReviews) {
	t.Helper()
	tags := newMemLookups(domain.LookupTag)
	sites := newMemWisata(tags)
	require.NoError(t, sites.Create(context.Background(), &domain.Wisata{Name: "Pantai Lamaru", Status: domain.WisataStatusPublished, CategoryID: 1}))

	userReviews := &memUserReviews{rows: map[int64]domain.UserReview{}}
	editorReviews := &memEditorReviews{rows: map[int64]domain.EditorReview{}}
	h := NewReviewHandler(service.NewReviewService(service.ReviewDependencies{
		UserReviewRepo:   userReviews,
		EditorReviewRepo: editorReviews,
		WisataRepo:       sites,
		Tx:               noTx{},
	}))

	app := newTestApp()
	app.Get("/review/wisata/:id", h.ListForWisata)
	secured := app.Group("/review", withPrincipal(actor))
	secured.Post("/user", h.CreateUserReview)
	secured.Patch("/user/:id", h.UpdateUserReview)
	secured.Post("/editor", h.CreateEditorReview)
	secured.Patch("/editor/:id", h.UpdateEditorReview)
	return app, userReviews, editorReviews
}

func TestReviewHandlerUserReviews(t *testing.T) {
	actor := &domain.User{ID: 7, Username: "ani", Role: domain.RoleUser}
	app, stored, _ := newReviewApp(t, actor)

	status, body := do(t, app, http.MethodPost, "/review/user", `{"id_wisata": 1, "rating": 4, "comment": "bersih"}`)
	require.Equal(t, http.StatusCreated, status, body)
	review, _ := body["data"].(map[string]any)
	assert.Equal(t, float64(7), review["id_user"])
	assert.Equal(t, float64(4), review["rating"])

	status, body = do(t, app, http.MethodPost, "/review/user", `{"id_wisata": 1, "rating": 5}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apperrors.CodeConflict, errCode(body))

	status, body = do(t, app, http.MethodPost, "/review/user", `{"id_wisata": 1, "rating": 6}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errCode(body))

	status, body = do(t, app, http.MethodPatch, "/review/user/1", `{"rating": 2}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 2, stored.rows[1].Rating)
	require.NotNil(t, stored.rows[1].Comment)
	assert.Equal(t, "bersih", *stored.rows[1].Comment, "omitted comment is kept")

	stored.rows[1] = domain.UserReview{ID: 1, WisataID: 1, UserID: 99, Rating: 2}
	status, body = do(t, app, http.MethodPatch, "/review/user/1", `{"rating": 3}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, errCode(body))
}

func TestReviewHandlerEditorReviewsAndListing(t *testing.T) {
	actor := &domain.User{ID: 3, Username: "redaksi", Role: domain.RoleEditor}
	app, userReviews, _ := newReviewApp(t, actor)
	userReviews.rows[1] = domain.UserReview{ID: 1, WisataID: 1, UserID: 10, Rating: 5}
	userReviews.rows[2] = domain.UserReview{ID: 2, WisataID: 1, UserID: 11, Rating: 4}
	userReviews.nextID = 2

	status, body := do(t, app, http.MethodPost, "/review/editor",
		`{"id_wisata": 1, "title": "Layak dikunjungi", "content": "Pasirnya bersih.", "recommendation_level": "recommended"}`)
	require.Equal(t, http.StatusCreated, status, body)
	review, _ := body["data"].(map[string]any)
	assert.Equal(t, float64(3), review["id_editor"])

	status, body = do(t, app, http.MethodPost, "/review/editor",
		`{"id_wisata": 1, "title": "x", "content": "y", "recommendation_level": "maybe"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.CodeValidation, errCode(body))

	status, body = do(t, app, http.MethodPatch, "/review/editor/1", `{"recommendation_level": "neutral"}`)
	require.Equal(t, http.StatusOK, status, body)
	review, _ = body["data"].(map[string]any)
	assert.Equal(t, "neutral", review["recommendation_level"])
	assert.Equal(t, "Layak dikunjungi", review["title"])

	status, body = do(t, app, http.MethodGet, "/review/wisata/1", "")
	require.Equal(t, http.StatusOK, status, body)
	listing, _ := body["data"].(map[string]any)
	assert.Equal(t, 4.5, listing["average_rating"])
	assert.Equal(t, float64(2), listing["rating_count"])
	assert.Len(t, listing["editor_reviews"], 1)

	status, body = do(t, app, http.MethodGet, "/review/wisata/99", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperrors.CodeNotFound, errCode(body))
}
