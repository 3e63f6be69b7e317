package cart

import (
	"github.com/google/uuid"

	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// Command is the tagged mutation set consumed by Apply. The session store
// dispatches decoded commands through Apply so every mutation path shares one
// entry point.
type Command interface {
	isCommand()
}

type AddItemCommand struct {
	Product   ProductSnapshot
	Quantity  int
	Modifiers []types.ModifierSelection
	Addons    []types.AddonSelection
}

type RemoveItemCommand struct {
	LineID string
}

type UpdateQuantityCommand struct {
	LineID   string
	Quantity int
}

type AddAddonCommand struct {
	LineID string
	Addon  types.AddonSelection
}

type RemoveAddonCommand struct {
	LineID  string
	AddonID uuid.UUID
}

type SetModifiersCommand struct {
	LineID    string
	Modifiers []types.ModifierSelection
}

type SetCustomerCommand struct {
	Name string
}

type SetNotesCommand struct {
	Notes string
}

type ClearCommand struct{}

func (AddItemCommand) isCommand()        {}
func (RemoveItemCommand) isCommand()     {}
func (UpdateQuantityCommand) isCommand() {}
func (AddAddonCommand) isCommand()       {}
func (RemoveAddonCommand) isCommand()    {}
func (SetModifiersCommand) isCommand()   {}
func (SetCustomerCommand) isCommand()    {}
func (SetNotesCommand) isCommand()       {}
func (ClearCommand) isCommand()          {}

// Apply executes one command against the cart. Commands addressing unknown
// line IDs are silent no-ops; only an unrecognized command type errors.
func Apply(c *Cart, cmd Command) error {
	switch v := cmd.(type) {
	case AddItemCommand:
		c.AddItem(v.Product, v.Quantity, v.Modifiers, v.Addons)
	case RemoveItemCommand:
		c.RemoveItem(v.LineID)
	case UpdateQuantityCommand:
		c.UpdateQuantity(v.LineID, v.Quantity)
	case AddAddonCommand:
		c.AddAddon(v.LineID, v.Addon)
	case RemoveAddonCommand:
		c.RemoveAddon(v.LineID, v.AddonID)
	case SetModifiersCommand:
		c.SetModifiers(v.LineID, v.Modifiers)
	case SetCustomerCommand:
		c.SetCustomer(v.Name)
	case SetNotesCommand:
		c.SetNotes(v.Notes)
	case ClearCommand:
		c.Clear()
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown cart command")
	}
	return nil
}
