// services/memory.go
package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/dto"
	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

var memoryMoods = []string{"cozy", "chaotic", "heartwarming", "mischievous", "sleepy"}

// Per-section memory templates. %s slots are the NPC name and a pet name.
var memoryTemplates = map[string][]string{
	shared.SectionBakery: {
		"%s pulled a fresh batch from the oven while %s watched with wide eyes.",
		"Flour everywhere. %s laughed as %s left little paw prints across the counter.",
	},
	shared.SectionPlayground: {
		"%s organized a race around the big oak, and %s insisted on a rematch.",
		"The afternoon sun kept %s and %s playing long past closing time.",
	},
	shared.SectionSalon: {
		"%s gave %s the fluffiest trim of the season.",
		"A quiet afternoon: %s hummed while brushing %s until they both dozed off.",
	},
}

// MemoryService creates and manages narrative memories. Generation appends to
// the in-flight player state so a memory persists only if the shift that
// spawned it does.
type MemoryService struct {
	context.DefaultService

	sqlSvc     *SqliteService
	contentSvc *ContentService
	mediaSvc   *MediaService
	eventSvc   *EventService

	rng RandomSource
}

const MEMORY_SVC = "memory_svc"

func (svc MemoryService) Id() string {
	return MEMORY_SVC
}

func (svc *MemoryService) Configure(ctx *context.Context) error {
	svc.rng = DefaultRNG()
	return svc.DefaultService.Configure(ctx)
}

func (svc *MemoryService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.eventSvc = svc.Service(EVENT_SVC).(*EventService)
	return nil
}

func (svc *MemoryService) random() RandomSource {
	if svc.rng == nil {
		svc.rng = DefaultRNG()
	}
	return svc.rng
}

// GenerateShiftMemory writes a memory for a finished shift, tagging the
// section NPC and the assigned pets.
func (svc *MemoryService) GenerateShiftMemory(state *model.PlayerState, shift *model.Shift, pets []*model.Pet) *model.Memory {
	id, err := uuid.NewV7()
	if err != nil {
		log.WithError(err).Warn("memory id generation failed")
		return nil
	}

	rng := svc.random()

	npcName := "the staff"
	var taggedNPCs []string
	if npc := svc.contentSvc.NPCForSection(shift.Section); npc != nil {
		npcName = npc.Name
		taggedNPCs = []string{npc.ID}
	}

	petName := "the pets"
	petIDs := shift.PetIDs()
	if len(pets) > 0 {
		petName = pets[rng.IntN(len(pets))].Name
	}

	templates := memoryTemplates[shift.Section]
	content := fmt.Sprintf("%s and %s shared a quiet moment at the café.", npcName, petName)
	if len(templates) > 0 {
		content = fmt.Sprintf(templates[rng.IntN(len(templates))], npcName, petName)
	}

	taggedJSON, _ := json.Marshal(taggedNPCs)
	petsJSON, _ := json.Marshal(petIDs)
	now := time.Now()
	memory := model.Memory{
		ID:         id.String(),
		PlayerID:   state.Progress.PlayerID,
		Content:    content,
		Mood:       memoryMoods[rng.IntN(len(memoryMoods))],
		TaggedNPCs: taggedJSON,
		PetIDs:     petsJSON,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	state.NewMemories = append(state.NewMemories, memory)

	if svc.eventSvc != nil {
		svc.eventSvc.Publish(MemoryCreatedPayload{
			PlayerID: memory.PlayerID,
			MemoryID: memory.ID,
			Mood:     memory.Mood,
			Section:  shift.Section,
		})
	}

	return &state.NewMemories[len(state.NewMemories)-1]
}

func (svc *MemoryService) ListMemories(playerID string) (*dto.MemoryListResponse, error) {
	memories, err := svc.sqlSvc.GetMemories(playerID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MemoryResponse, 0, len(memories))
	for i := range memories {
		out = append(out, toMemoryResponse(&memories[i]))
	}
	return &dto.MemoryListResponse{Memories: out, Total: len(out)}, nil
}

// PublishMemory flips the published flag; publishing is one-way.
func (svc *MemoryService) PublishMemory(playerID, memoryID string) (*dto.MemoryResponse, error) {
	memory, err := svc.sqlSvc.GetMemory(playerID, memoryID)
	if err != nil {
		return nil, err
	}

	if !memory.IsPublished {
		memory.IsPublished = true
		memory.UpdatedAt = time.Now()
		if err := svc.sqlSvc.UpdateMemory(memory); err != nil {
			return nil, err
		}
	}

	resp := toMemoryResponse(memory)
	return &resp, nil
}

// AttachImage uploads a snapshot for the memory and stores its object URL.
func (svc *MemoryService) AttachImage(playerID, memoryID string, data []byte, contentType string) (*dto.MemoryImageResponse, error) {
	memory, err := svc.sqlSvc.GetMemory(playerID, memoryID)
	if err != nil {
		return nil, err
	}

	url, err := svc.mediaSvc.UploadMemoryImage(playerID, memoryID, data, contentType)
	if err != nil {
		return nil, err
	}

	memory.ImageURL = url
	memory.UpdatedAt = time.Now()
	if err := svc.sqlSvc.UpdateMemory(memory); err != nil {
		return nil, err
	}

	return &dto.MemoryImageResponse{MemoryID: memoryID, ImageURL: url}, nil
}

func toMemoryResponse(memory *model.Memory) dto.MemoryResponse {
	var taggedNPCs, petIDs []string
	_ = json.Unmarshal(memory.TaggedNPCs, &taggedNPCs)
	_ = json.Unmarshal(memory.PetIDs, &petIDs)

	return dto.MemoryResponse{
		ID:          memory.ID,
		Content:     memory.Content,
		Mood:        memory.Mood,
		TaggedNPCs:  taggedNPCs,
		PetIDs:      petIDs,
		ImageURL:    memory.ImageURL,
		IsPublished: memory.IsPublished,
		CreatedAt:   memory.CreatedAt,
	}
}
