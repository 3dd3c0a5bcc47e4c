package controllers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/My-selling-apps/PhoneBechPakistan/api/middleware"
	"github.com/My-selling-apps/PhoneBechPakistan/api/responses"
	"github.com/My-selling-apps/PhoneBechPakistan/api/validators"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	pkgerrors "github.com/My-selling-apps/PhoneBechPakistan/pkg/errors"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
)

const maxListingLimit = 50

func parseAdID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "adId"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ad id is required")
	}
	adID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || adID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid ad id")
	}
	return adID, nil
}

func draftFromMultipart(r *http.Request, userID string, cfg config.AdsConfig) (ads.Draft, error) {
	maxBody := cfg.MaxImageBytes*int64(cfg.MaxImages) + 1<<20
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxBody); err != nil {
		return ads.Draft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	draft := ads.Draft{
		UserID:      userID,
		Brand:       strings.TrimSpace(r.FormValue("brand")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Sector:      strings.TrimSpace(r.FormValue("sector")),
		Area:        strings.TrimSpace(r.FormValue("area")),
		Title:       strings.TrimSpace(r.FormValue("ad_title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Price:       strings.TrimSpace(r.FormValue("price")),
		Name:        strings.TrimSpace(r.FormValue("name")),
		Phone:       strings.TrimSpace(r.FormValue("phone")),
		Condition:   strings.ToLower(strings.TrimSpace(r.FormValue("condition"))),
	}
	if raw := strings.TrimSpace(r.FormValue("is_deliverable")); raw != "" {
		deliverable, err := strconv.ParseBool(raw)
		if err != nil {
			return ads.Draft{}, pkgerrors.New(pkgerrors.CodeValidation, "is_deliverable must be a boolean")
		}
		draft.IsDeliverable = deliverable
	}

	files := r.MultipartForm.File["images"]
	if len(files) > cfg.MaxImages {
		return ads.Draft{}, pkgerrors.New(pkgerrors.CodeValidation, "too many images attached")
	}
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return ads.Draft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image attachment")
		}
		data, err := io.ReadAll(io.LimitReader(file, cfg.MaxImageBytes+1))
		file.Close()
		if err != nil {
			return ads.Draft{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image attachment")
		}
		draft.Images = append(draft.Images, ads.DraftImage{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return draft, nil
}

// AdsSubmit accepts a multipart ad submission, screens the images, and
// persists the accepted and/or rejected records.
func AdsSubmit(svc ads.Service, cfg config.AdsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ads service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		draft, err := draftFromMultipart(r, userID, cfg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		outcome, err := svc.Submit(ctx, draft)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, outcome)
	}
}

// AdsList returns the public, filterable listing of accepted ads.
func AdsList(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ads service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListingLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		deliverable, err := validators.ParseQueryBool(r, "deliverable")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := ads.ListFilters{
			Brand:       strings.TrimSpace(query.Get("brand")),
			Location:    strings.TrimSpace(query.Get("location")),
			Sector:      strings.TrimSpace(query.Get("sector")),
			Condition:   strings.ToLower(strings.TrimSpace(query.Get("condition"))),
			Search:      strings.TrimSpace(query.Get("search")),
			Deliverable: deliverable,
			MinPrice:    strings.TrimSpace(query.Get("min_price")),
			MaxPrice:    strings.TrimSpace(query.Get("max_price")),
		}

		cursor := strings.TrimSpace(query.Get("cursor"))
		page, err := svc.List(ctx, filters, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdsDetail returns one accepted ad by its listing id.
func AdsDetail(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ads service unavailable"))
			return
		}

		adID, err := parseAdID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ad, err := svc.Get(ctx, adID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ad)
	}
}

// AdsMine returns the authenticated submitter's own ads.
func AdsMine(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ads service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListingLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		page, err := svc.MyAds(ctx, userID, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type adUpdatePayload struct {
	Title       *string `json:"ad_title" validate:"omitempty,max=160"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Price       *string `json:"price" validate:"omitempty,max=32"`
	Location    *string `json:"location" validate:"omitempty,max=160"`
	Sold        *bool   `json:"sold"`
}

// AdsUpdate edits the submitter's own ad in place.
func AdsUpdate(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ads service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		adID, err := parseAdID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload adUpdatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload.Title == nil && payload.Description == nil && payload.Price == nil && payload.Location == nil && payload.Sold == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no editable fields provided"))
			return
		}

		ad, err := svc.Update(ctx, adID, userID, ads.UpdateInput{
			Title:       payload.Title,
			Description: payload.Description,
			Price:       payload.Price,
			Location:    payload.Location,
			Sold:        payload.Sold,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, ad)
	}
}

// AdsDelete removes the submitter's own ad along with its stored images.
func AdsDelete(svc ads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ads service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		adID, err := parseAdID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, adID, userID, false); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
