package dto

import "time"

type MemoryResponse struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Mood        string    `json:"mood"`
	TaggedNPCs  []string  `json:"tagged_npcs"`
	PetIDs      []string  `json:"pet_ids"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type MemoryListResponse struct {
	Memories []MemoryResponse `json:"memories"`
	Total    int              `json:"total"`
}

type MemoryImageResponse struct {
	MemoryID string `json:"memory_id"`
	ImageURL string `json:"image_url"`
}
