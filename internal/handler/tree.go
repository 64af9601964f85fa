package handler

import (
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/CageChen/docforge/internal/config"
)

// TreeNode represents a document or directory in the tree
type TreeNode struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Path        string      `json:"path,omitempty"`
	Alias       string      `json:"alias,omitempty"`
	GitRef      string      `json:"gitRef,omitempty"`
	FolderID    int         `json:"folderId"`
	Children    []*TreeNode `json:"children,omitempty"`
	IsRepoGroup bool        `json:"isRepoGroup,omitempty"`
}

// TreeHandler handles directory tree API requests
type TreeHandler struct {
	cfg *config.Config
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(cfg *config.Config) *TreeHandler {
	return &TreeHandler{cfg: cfg}
}

// GetTree returns the document tree for all configured folders
func (h *TreeHandler) GetTree(c *gin.Context) {
	var rawRoots []*TreeNode

	for i, folder := range h.cfg.Folders {
		names, err := h.cfg.Source(folder).List()
		if err != nil {
			log.Warn().Err(err).Str("folder", folder.Alias).Msg("cannot list folder")
			continue
		}
		root := buildTree(names, i, folder.Alias)
		root.GitRef = folder.GitRef
		rawRoots = append(rawRoots, root)
	}

	roots := h.groupByRepo(rawRoots)

	if len(roots) == 1 {
		c.JSON(http.StatusOK, roots[0])
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":     "root",
		"children": roots,
	})
}

// GetFolders returns the configured folders and global excludes
func (h *TreeHandler) GetFolders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"folders":       h.cfg.Folders,
		"globalExclude": h.cfg.Exclude,
	})
}

// buildTree turns sorted relative document paths into a nested tree rooted at
// the folder alias.
func buildTree(names []string, folderID int, alias string) *TreeNode {
	root := &TreeNode{Name: alias, Type: "directory", Alias: alias, FolderID: folderID}
	dirs := map[string]*TreeNode{"": root}

	for _, name := range names {
		parts := strings.Split(name, "/")
		parent := root
		for i := range parts[:len(parts)-1] {
			key := strings.Join(parts[:i+1], "/")
			dir, ok := dirs[key]
			if !ok {
				dir = &TreeNode{Name: parts[i], Type: "directory", Path: alias + "/" + key, FolderID: folderID}
				dirs[key] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}
		parent.Children = append(parent.Children, &TreeNode{
			Name:     parts[len(parts)-1],
			Type:     "file",
			Path:     alias + "/" + name,
			FolderID: folderID,
		})
	}

	sortTree(root)
	return root
}

// sortTree orders directories first, then files, both alphabetically.
func sortTree(n *TreeNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if (a.Type == "directory") != (b.Type == "directory") {
			return a.Type == "directory"
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, child := range n.Children {
		sortTree(child)
	}
}

// groupByRepo groups folder roots that share the same repository path (i.e.
// multiple git refs of the same repo) under a single parent node named after
// the repository directory. Folders without a GitRef are kept as-is.
func (h *TreeHandler) groupByRepo(roots []*TreeNode) []*TreeNode {
	repoMap := make(map[string][]*TreeNode)
	var order []string
	var standalone []*TreeNode

	for _, node := range roots {
		folder := h.cfg.Folders[node.FolderID]
		if folder.GitRef == "" {
			standalone = append(standalone, node)
			continue
		}
		if _, seen := repoMap[folder.Path]; !seen {
			order = append(order, folder.Path)
		}
		repoMap[folder.Path] = append(repoMap[folder.Path], node)
	}

	var result []*TreeNode
	for _, repoPath := range order {
		nodes := repoMap[repoPath]
		if len(nodes) == 1 {
			result = append(result, nodes[0])
			continue
		}
		result = append(result, &TreeNode{
			Name:        filepath.Base(repoPath),
			Type:        "directory",
			IsRepoGroup: true,
			Children:    nodes,
		})
	}

	return append(result, standalone...)
}
