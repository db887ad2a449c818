package dto

// CreateTagRequest is the JSON body for POST /api/tags.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// TagResponse is a tag as embedded in todo payloads and POST /api/tags replies.
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagCountResponse is an element of GET /api/tags.
type TagCountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
