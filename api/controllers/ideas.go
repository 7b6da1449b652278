package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/startupidea/api/middleware"
	"github.com/angelmondragon/startupidea/api/responses"
	"github.com/angelmondragon/startupidea/api/validators"
	"github.com/angelmondragon/startupidea/internal/ideas"
	"github.com/angelmondragon/startupidea/internal/media"
	pkgerrors "github.com/angelmondragon/startupidea/pkg/errors"
	"github.com/angelmondragon/startupidea/pkg/logger"
)

const (
	sortRecent   = "recent"
	sortTrending = "trending"

	maxQueryLen = 200
	logoField   = "logo"
)

type ideaListResponse struct {
	Ideas     []ideas.Idea `json:"ideas"`
	Uploading bool         `json:"uploading"`
}

// IdeaList serves the local collection. sort picks the ordering, q narrows by title or
// description, mine keeps the signed-in user's ideas.
func IdeaList(store IdeaStore, mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := validators.ParseQueryEnum(r, "sort", "", sortRecent, sortTrending)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mine, err := validators.ParseQueryBool(r, "mine", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLen)

		var list []ideas.Idea
		switch order {
		case sortRecent:
			list = store.Recent()
		case sortTrending:
			list = store.Trending()
		default:
			list = store.Snapshot().Ideas
		}
		if query != "" {
			list = intersect(list, store.Search(query))
		}
		if mine {
			email := mgr.CurrentEmail()
			owned := make([]ideas.Idea, 0, len(list))
			for _, idea := range list {
				if ideas.IsOwner(idea, email) {
					owned = append(owned, idea)
				}
			}
			list = owned
		}

		responses.WriteSuccess(w, ideaListResponse{Ideas: list, Uploading: store.Snapshot().Uploading})
	}
}

// IdeaDetail returns one idea from the local collection.
func IdeaDetail(store IdeaStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idea, ok := store.Find(chi.URLParam(r, "id"))
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "idea not found"))
			return
		}
		responses.WriteSuccess(w, idea)
	}
}

// IdeaRefresh re-fetches the collection from the backend.
func IdeaRefresh(store IdeaStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.FetchIdeas(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snapshot := store.Snapshot()
		responses.WriteSuccess(w, ideaListResponse{Ideas: snapshot.Ideas, Uploading: snapshot.Uploading})
	}
}

// IdeaCreate submits a multipart form. The owner email always comes from the session.
func IdeaCreate(store IdeaStore, maxLogoBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logo, ok := readIdeaForm(w, r, maxLogoBytes, logg)
		if !ok {
			return
		}
		idea, err := store.SubmitIdea(r.Context(), ideas.SubmitInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Email:       middleware.EmailFromContext(r.Context()),
			Phone:       r.FormValue("phone"),
			Logo:        logo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, idea)
	}
}

// IdeaUpdate applies a multipart edit to an existing idea.
func IdeaUpdate(store IdeaStore, maxLogoBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logo, ok := readIdeaForm(w, r, maxLogoBytes, logg)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		updated, err := store.UpdateIdea(r.Context(), ideas.UpdateInput{
			ID:          id,
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Email:       middleware.EmailFromContext(r.Context()),
			Phone:       r.FormValue("phone"),
			Logo:        logo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !updated {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "idea not found"))
			return
		}
		idea, _ := store.Find(id)
		responses.WriteSuccess(w, idea)
	}
}

// IdeaDelete removes an idea and re-fetches the collection.
func IdeaDelete(store IdeaStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.DeleteIdea(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"deleted": id})
	}
}

// readIdeaForm parses the form and stages the optional logo. The store closes the logo.
func readIdeaForm(w http.ResponseWriter, r *http.Request, maxLogoBytes int64, logg *logger.Logger) (*media.Logo, bool) {
	if err := validators.ParseMultipart(w, r, maxLogoBytes); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	file, header, err := validators.FormFile(r, logoField)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	if file == nil {
		return nil, true
	}
	defer file.Close()

	logo, err := media.NewLogo(file, header.Filename, maxLogoBytes)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return logo, true
}

func intersect(ordered, matches []ideas.Idea) []ideas.Idea {
	keep := make(map[string]struct{}, len(matches))
	for _, idea := range matches {
		keep[idea.ID] = struct{}{}
	}
	out := make([]ideas.Idea, 0, len(matches))
	for _, idea := range ordered {
		if _, ok := keep[idea.ID]; ok {
			out = append(out, idea)
		}
	}
	return out
}
