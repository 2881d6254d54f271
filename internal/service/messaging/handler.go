package messaging

import (
	"net/http"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/web"
)

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) inbox(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	convs, err := h.svc.ListConversations(r.Context(), web.CurrentUser(r.Context()).ID)
	if err != nil {
		site.Fail(w, r, err, "/")
		return
	}
	site.Render(w, r, http.StatusOK, "messages", "Messages", convs)
}

func (h *handler) thread(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	otherID, err := web.PathID(r, "otherUserId")
	if err != nil {
		site.Fail(w, r, err, "/messages")
		return
	}

	view, err := h.svc.Thread(r.Context(), web.CurrentUser(r.Context()).ID, otherID)
	if err != nil {
		site.Fail(w, r, err, "/messages")
		return
	}
	site.Render(w, r, http.StatusOK, "conversation", view.Other.Username, view)
}

func (h *handler) send(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	user := web.CurrentUser(r.Context())
	otherID, err := web.PathID(r, "otherUserId")
	if err != nil {
		site.Fail(w, r, err, "/messages")
		return
	}

	conv, err := h.svc.GetOrCreateConversation(r.Context(), user.ID, otherID)
	if err != nil {
		site.Fail(w, r, err, "/messages")
		return
	}
	if _, err := h.svc.SendMessage(r.Context(), conv.ID, user.ID, r.FormValue("message_text")); err != nil {
		site.Fail(w, r, err, r.URL.Path)
		return
	}
	site.Redirect(w, r, r.URL.Path)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	site := h.appCtx.Site
	otherID, err := web.PathID(r, "otherUserId")
	if err != nil {
		site.Fail(w, r, err, "/messages")
		return
	}

	if err := h.svc.DeleteConversationWith(r.Context(), web.CurrentUser(r.Context()).ID, otherID); err != nil {
		site.Fail(w, r, err, "/messages")
		return
	}
	site.Flash(w, r, web.NoticeInfo, "Conversation deleted.")
	site.Redirect(w, r, "/messages")
}
