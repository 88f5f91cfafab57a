// services/content.go
package services

import (
	"fmt"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/model"
	"github.com/mjiang-series/petcafe_api/shared"
)

// ContentService holds the read-only game catalogs. Rows are seeded out of
// band (see seed/) and loaded once at startup; a rarity tier without pets is
// a content bug, not a runtime condition, and fails loudly.
type ContentService struct {
	context.DefaultService

	sqlSvc   *SqliteService
	redisSvc *RedisService

	pets         map[string]*model.Pet
	petsByRarity map[string][]*model.Pet
	activities   map[string]*model.Activity
	consumables  map[string]*model.Consumable
	npcs         map[string]*model.NPC
	npcBySection map[string]*model.NPC
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)

	pets, err := svc.sqlSvc.GetAllPets()
	if err != nil {
		return err
	}
	activities, err := svc.sqlSvc.GetAllActivities()
	if err != nil {
		return err
	}
	consumables, err := svc.sqlSvc.GetAllConsumables()
	if err != nil {
		return err
	}
	npcs, err := svc.sqlSvc.GetAllNPCs()
	if err != nil {
		return err
	}

	svc.LoadCatalogs(pets, activities, consumables, npcs)
	svc.cacheCatalogs(pets, activities, consumables)

	log.WithFields(log.Fields{
		"pets":        len(pets),
		"activities":  len(activities),
		"consumables": len(consumables),
		"npcs":        len(npcs),
	}).Info("Content catalogs loaded")

	return svc.validateCatalogs()
}

// LoadCatalogs indexes the tables in memory. Exported so the tests and the
// seed tooling can build a service without a database.
func (svc *ContentService) LoadCatalogs(pets []model.Pet, activities []model.Activity, consumables []model.Consumable, npcs []model.NPC) {
	svc.pets = make(map[string]*model.Pet, len(pets))
	svc.petsByRarity = make(map[string][]*model.Pet)
	for i := range pets {
		p := &pets[i]
		svc.pets[p.ID] = p
		svc.petsByRarity[p.Rarity] = append(svc.petsByRarity[p.Rarity], p)
	}

	svc.activities = make(map[string]*model.Activity, len(activities))
	for i := range activities {
		a := &activities[i]
		svc.activities[a.ID] = a
	}

	svc.consumables = make(map[string]*model.Consumable, len(consumables))
	for i := range consumables {
		c := &consumables[i]
		svc.consumables[c.ID] = c
	}

	svc.npcs = make(map[string]*model.NPC, len(npcs))
	svc.npcBySection = make(map[string]*model.NPC, len(npcs))
	for i := range npcs {
		n := &npcs[i]
		svc.npcs[n.ID] = n
		svc.npcBySection[n.Section] = n
	}
}

func (svc *ContentService) validateCatalogs() error {
	for _, rarity := range []string{shared.RarityCommon, shared.RarityRare, shared.RarityLegendary} {
		if len(svc.petsByRarity[rarity]) == 0 {
			return fmt.Errorf("pet catalog has no entries for rarity %q", rarity)
		}
	}
	return nil
}

func (svc *ContentService) cacheCatalogs(pets []model.Pet, activities []model.Activity, consumables []model.Consumable) {
	if svc.redisSvc == nil {
		return
	}
	if err := svc.redisSvc.CacheCatalog("pets", pets); err != nil {
		log.WithError(err).Warn("Failed to cache pet catalog")
	}
	if err := svc.redisSvc.CacheCatalog("activities", activities); err != nil {
		log.WithError(err).Warn("Failed to cache activity catalog")
	}
	if err := svc.redisSvc.CacheCatalog("consumables", consumables); err != nil {
		log.WithError(err).Warn("Failed to cache consumable catalog")
	}
}

func (svc *ContentService) GetPet(petID string) (*model.Pet, error) {
	pet, ok := svc.pets[petID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("pet %s not in catalog", petID), "Pet not found")
	}
	return pet, nil
}

// PetsByRarity returns every catalog pet of the tier. An empty tier is a
// fatal configuration error, never a silent fallback to another tier.
func (svc *ContentService) PetsByRarity(rarity string) ([]*model.Pet, error) {
	pets := svc.petsByRarity[rarity]
	if len(pets) == 0 {
		return nil, shared.NewInternalError(
			fmt.Errorf("pet catalog has no entries for rarity %q", rarity),
			"Content configuration error")
	}
	return pets, nil
}

func (svc *ContentService) GetActivity(activityID string) (*model.Activity, error) {
	activity, ok := svc.activities[activityID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("activity %s not in catalog", activityID), "Activity not found")
	}
	return activity, nil
}

func (svc *ContentService) GetConsumable(consumableID string) (*model.Consumable, error) {
	consumable, ok := svc.consumables[consumableID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("consumable %s not in catalog", consumableID), "Consumable not found")
	}
	return consumable, nil
}

// ConsumableByEffect returns the first catalog consumable of the given effect
// kind, for flows that consume "one instant finish" regardless of brand.
func (svc *ContentService) ConsumableByEffect(effectKind string) *model.Consumable {
	for _, c := range svc.consumables {
		if c.EffectKind == effectKind {
			return c
		}
	}
	return nil
}

func (svc *ContentService) GetNPC(npcID string) (*model.NPC, error) {
	npc, ok := svc.npcs[npcID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("npc %s not in catalog", npcID), "NPC not found")
	}
	return npc, nil
}

// NPCForSection resolves the section -> NPC affinity mapping used by the bond
// ledger when pets are acquired or shifts complete.
func (svc *ContentService) NPCForSection(section string) *model.NPC {
	return svc.npcBySection[section]
}

func (svc *ContentService) AllNPCs() []*model.NPC {
	npcs := make([]*model.NPC, 0, len(svc.npcs))
	for _, n := range svc.npcs {
		npcs = append(npcs, n)
	}
	return npcs
}

func (svc *ContentService) CatalogSize() int {
	return len(svc.pets)
}
