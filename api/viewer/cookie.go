// Package viewer carries the viewer id between the browser and the controllers.
package viewer

import (
	"errors"
	"net/http"
	"time"

	"github.com/beka-birhanu/wired/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CookieName = "wired_viewer"
	TokenTTL   = 24 * time.Hour

	// ContextViewerID is the key under which Identify stores the viewer id in the gin context.
	ContextViewerID = "viewerID"
)

var ErrNoViewer = errors.New("viewer cookie missing or invalid")

// Identify resolves the viewer cookie and stores the viewer id in the gin context.
// Requests without a valid cookie go on unidentified; each controller decides what to do with them.
func Identify(ts i.ViewerTokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(CookieName); err == nil {
			if id, err := ts.Parse(raw); err == nil {
				c.Set(ContextViewerID, id)
			}
		}
		c.Next()
	}
}

// ID returns the viewer id resolved by Identify.
func ID(ctx *gin.Context) (uuid.UUID, error) {
	value, ok := ctx.Get(ContextViewerID)
	if !ok {
		return uuid.Nil, ErrNoViewer
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoViewer
	}
	return id, nil
}

// SetID issues a token for id, stores it in the viewer cookie and marks the request as id's.
func SetID(ctx *gin.Context, ts i.ViewerTokenizer, id uuid.UUID) error {
	token, err := ts.Issue(id)
	if err != nil {
		return err
	}

	ctx.Set(ContextViewerID, id)
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, token, int(TokenTTL/time.Second), "/", "", false, true)
	return nil
}
