package dto

type BondResponse struct {
	NPCID         string `json:"npc_id"`
	NPCName       string `json:"npc_name"`
	Section       string `json:"section"`
	BondLevel     int    `json:"bond_level"`
	BondPoints    int    `json:"bond_points"`
	MaxBondPoints int    `json:"max_bond_points"`
}

type BondListResponse struct {
	Bonds []BondResponse `json:"bonds"`
}
