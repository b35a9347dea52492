package handler

import (
	"net/http"

	"github.com/pawtrail/rescue/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. blobs may be nil
// when the S3 blob backend serves objects directly.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	animals *service.AnimalService,
	geo *service.GeoService,
	images *service.ImageService,
	limiter *service.UploadLimiter,
	blobs *BlobHandler,
) {
	authHandler := NewAuthHandler(auth)
	animalHandler := NewAnimalHandler(animals, geo)
	imageHandler := NewImageHandler(images)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, RateLimit(limiter, h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.Handle("GET /api/auth/me", requireAuth(authHandler.HandleMe))

	mux.Handle("POST /api/animals", limited(animalHandler.HandleReport))
	mux.HandleFunc("GET /api/animals", animalHandler.HandleList)
	mux.HandleFunc("GET /api/animals/near", animalHandler.HandleNear)
	mux.HandleFunc("GET /api/animals/recent", animalHandler.HandleRecent)
	mux.HandleFunc("GET /api/animals/stats", animalHandler.HandleStats)
	mux.Handle("GET /api/animals/mine", requireAuth(animalHandler.HandleMine))
	mux.HandleFunc("GET /api/animals/{id}", animalHandler.HandleGet)
	mux.Handle("PUT /api/animals/{id}", limited(animalHandler.HandleUpdate))
	mux.Handle("PATCH /api/animals/{id}/status", limited(animalHandler.HandleUpdateStatus))
	mux.Handle("DELETE /api/animals/{id}", requireAuth(animalHandler.HandleDelete))

	mux.Handle("POST /api/animals/{id}/images", limited(imageHandler.HandleUpload))
	mux.HandleFunc("GET /api/animals/{id}/images", imageHandler.HandleList)
	mux.HandleFunc("GET /api/animals/{id}/images/primary", imageHandler.HandleGetPrimary)
	mux.Handle("PUT /api/animals/{id}/images/{imageID}/primary", requireAuth(imageHandler.HandleSetPrimary))
	mux.Handle("DELETE /api/images/{imageID}", requireAuth(imageHandler.HandleDelete))

	if blobs != nil {
		mux.HandleFunc("GET /blobs/{key...}", blobs.HandleServe)
	}
}
