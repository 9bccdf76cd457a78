package game

import (
	"fmt"

	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/types"
)

// PurchaseOutcome is the business result of a purchase attempt
type PurchaseOutcome string

const (
	PurchaseBought            PurchaseOutcome = "bought"
	PurchaseInsufficientFunds PurchaseOutcome = "insufficient_funds"
	PurchaseUnknownItem       PurchaseOutcome = "unknown_item"
)

// Auto-consumption happens below this hunger or thirst value
const autoConsumeThreshold = 70

// PurchaseResult describes what a purchase did
type PurchaseResult struct {
	Outcome   PurchaseOutcome `json:"outcome"`
	Item      *types.ShopItem `json:"item,omitempty"`
	Consumed  bool            `json:"consumed"`
	FaceBoost int             `json:"face_boost,omitempty"`
}

// purchase resolves ref against the catalog and buys one unit. Failing outcomes
// leave st untouched and only queue spoken feedback.
func purchase(st *State, catalog *content.Catalog, ref string, fx *effects) PurchaseResult {
	item, ok := catalog.FindItem(ref)
	if !ok {
		fx.speak("We don't sell that.")
		return PurchaseResult{Outcome: PurchaseUnknownItem}
	}
	if st.Stats.Money < item.Price {
		fx.speak("Not enough money!")
		return PurchaseResult{Outcome: PurchaseInsufficientFunds, Item: item}
	}

	st.Stats.Money -= item.Price
	st.Inventory = append(st.Inventory, types.InventoryItem{ID: item.ID, Count: 1})
	fx.notify(fmt.Sprintf("Bought %s!", item.Name))
	fx.sound(types.SoundCoin)

	result := PurchaseResult{Outcome: PurchaseBought, Item: item}
	switch {
	case item.Type == types.ItemFood && st.Stats.Hunger < autoConsumeThreshold:
		consume(st, item.ID)
		bump(&st.Stats.Hunger, item.EffectValue)
		result.Consumed = true
	case item.Type == types.ItemDrink && st.Stats.Thirst < autoConsumeThreshold:
		consume(st, item.ID)
		bump(&st.Stats.Thirst, item.EffectValue)
		result.Consumed = true
	case item.Type == types.ItemClothing:
		bump(&st.Stats.Face, item.EffectValue)
		result.FaceBoost = item.EffectValue
		fx.notify("You look stylish! (+Face)")
	}
	return result
}

// consume removes the first inventory entry with the ID, whatever its count
func consume(st *State, id string) bool {
	for i, entry := range st.Inventory {
		if entry.ID == id {
			st.Inventory = append(st.Inventory[:i:i], st.Inventory[i+1:]...)
			return true
		}
	}
	return false
}
