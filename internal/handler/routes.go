package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/CageChen/docforge/internal/config"
)

// WSPath is the live reload websocket route.
const WSPath = "/api/ws"

// Register mounts the API and view routes. ws may be nil to serve without
// live reload.
func Register(r gin.IRouter, cfg *config.Config, ws *WSHandler) {
	wsPath := ""
	if ws != nil {
		wsPath = WSPath
	}

	tree := NewTreeHandler(cfg)
	docs := NewDocHandler(cfg, wsPath)

	api := r.Group("/api")
	{
		api.GET("/tree", tree.GetTree)
		api.GET("/folders", tree.GetFolders)
		api.GET("/docs/*path", docs.GetDoc)
		api.GET("/raw/*path", docs.GetRaw)
		api.GET("/styles", docs.GetStyles)
		if ws != nil {
			api.GET("/ws", ws.HandleWS)
		}
	}

	r.GET("/view/*path", docs.View)
}
