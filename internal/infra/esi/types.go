package esi

// Wire shapes for the subset of ESI fields the engine consumes. Prices are
// floats only here at the JSON boundary.

type inventoryType struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

type idsResponse struct {
	InventoryTypes []inventoryType `json:"inventory_types"`
}

type marketOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int32   `json:"type_id"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Price        float64 `json:"price"`
	LocationID   int64   `json:"location_id"`
	VolumeRemain int64   `json:"volume_remain"`
}
