package modifiers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// Service exposes modifier group, modifier, and addon management plus
// selection resolution for the cart.
type Service interface {
	CreateGroup(ctx context.Context, input CreateGroupInput) (*models.ModifierGroup, error)
	UpdateGroup(ctx context.Context, groupID uuid.UUID, input UpdateGroupInput) (*models.ModifierGroup, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error

	CreateModifier(ctx context.Context, input CreateModifierInput) (*models.Modifier, error)
	UpdateModifier(ctx context.Context, modifierID uuid.UUID, input UpdateModifierInput) (*models.Modifier, error)
	DeleteModifier(ctx context.Context, modifierID uuid.UUID) error

	CreateAddon(ctx context.Context, input CreateAddonInput) (*models.Addon, error)
	UpdateAddon(ctx context.Context, addonID uuid.UUID, input UpdateAddonInput) (*models.Addon, error)
	DeleteAddon(ctx context.Context, addonID uuid.UUID) error

	ResolveSelections(ctx context.Context, productID uuid.UUID, input SelectionInput) (types.ModifierSelections, types.AddonSelections, error)
	ResolveAddon(ctx context.Context, productID uuid.UUID, choice AddonChoice) (types.AddonSelection, error)
}

// CreateGroupInput holds the payload to create a modifier group.
type CreateGroupInput struct {
	ProductID   uuid.UUID
	Name        string
	Required    bool
	MultiSelect bool
	MinSelect   int
	MaxSelect   int
	SortOrder   int
}

// UpdateGroupInput holds optional mutation values for a group.
type UpdateGroupInput struct {
	Name        *string
	Required    *bool
	MultiSelect *bool
	MinSelect   *int
	MaxSelect   *int
	SortOrder   *int
}

// CreateModifierInput holds the payload to create an option.
type CreateModifierInput struct {
	GroupID         uuid.UUID
	Name            string
	PriceAdjustment types.Money
	InventoryRef    *uuid.UUID
	IsDefault       bool
	SortOrder       int
}

// UpdateModifierInput holds optional mutation values for an option.
type UpdateModifierInput struct {
	Name            *string
	PriceAdjustment *types.Money
	InventoryRef    *uuid.UUID
	IsDefault       *bool
	SortOrder       *int
}

// CreateAddonInput holds the payload to create an addon.
type CreateAddonInput struct {
	ProductID    *uuid.UUID
	Name         string
	UnitPrice    types.Money
	InventoryRef *uuid.UUID
	IsActive     bool
	SortOrder    int
}

// UpdateAddonInput holds optional mutation values for an addon.
type UpdateAddonInput struct {
	Name         *string
	UnitPrice    *types.Money
	InventoryRef *uuid.UUID
	IsActive     *bool
	SortOrder    *int
}

// SelectionInput carries the raw modifier and addon choices from a register.
type SelectionInput struct {
	ModifierIDs []uuid.UUID
	Addons      []AddonChoice
}

// AddonChoice pairs an addon with its requested quantity.
type AddonChoice struct {
	AddonID  uuid.UUID
	Quantity int
}

type service struct {
	repo *Repository
}

// NewService constructs a modifiers service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("modifiers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateGroup(ctx context.Context, input CreateGroupInput) (*models.ModifierGroup, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if err := validateSelectBounds(input.MinSelect, input.MaxSelect, input.MultiSelect); err != nil {
		return nil, err
	}

	group := &models.ModifierGroup{
		ProductID:   input.ProductID,
		Name:        strings.TrimSpace(input.Name),
		Required:    input.Required,
		MultiSelect: input.MultiSelect,
		MinSelect:   input.MinSelect,
		MaxSelect:   input.MaxSelect,
		SortOrder:   input.SortOrder,
	}
	created, err := s.repo.CreateGroup(ctx, group)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create modifier group")
	}
	return created, nil
}

func (s *service) UpdateGroup(ctx context.Context, groupID uuid.UUID, input UpdateGroupInput) (*models.ModifierGroup, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		group.Name = strings.TrimSpace(*input.Name)
	}
	if input.Required != nil {
		group.Required = *input.Required
	}
	if input.MultiSelect != nil {
		group.MultiSelect = *input.MultiSelect
	}
	if input.MinSelect != nil {
		group.MinSelect = *input.MinSelect
	}
	if input.MaxSelect != nil {
		group.MaxSelect = *input.MaxSelect
	}
	if input.SortOrder != nil {
		group.SortOrder = *input.SortOrder
	}
	if err := validateSelectBounds(group.MinSelect, group.MaxSelect, group.MultiSelect); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateGroup(ctx, group)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update modifier group")
	}
	return updated, nil
}

func (s *service) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	if groupID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "group id required")
	}
	if err := s.repo.DeleteGroup(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "modifier group not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete modifier group")
	}
	return nil
}

func (s *service) CreateModifier(ctx context.Context, input CreateModifierInput) (*models.Modifier, error) {
	if input.GroupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if _, err := s.loadGroup(ctx, input.GroupID); err != nil {
		return nil, err
	}

	modifier := &models.Modifier{
		GroupID:         input.GroupID,
		Name:            strings.TrimSpace(input.Name),
		PriceAdjustment: input.PriceAdjustment,
		InventoryRef:    input.InventoryRef,
		IsDefault:       input.IsDefault,
		SortOrder:       input.SortOrder,
	}
	created, err := s.repo.CreateModifier(ctx, modifier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create modifier")
	}
	return created, nil
}

func (s *service) UpdateModifier(ctx context.Context, modifierID uuid.UUID, input UpdateModifierInput) (*models.Modifier, error) {
	modifier, err := s.repo.FindModifierByID(ctx, modifierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "modifier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load modifier")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		modifier.Name = strings.TrimSpace(*input.Name)
	}
	if input.PriceAdjustment != nil {
		modifier.PriceAdjustment = *input.PriceAdjustment
	}
	if input.InventoryRef != nil {
		modifier.InventoryRef = input.InventoryRef
	}
	if input.IsDefault != nil {
		modifier.IsDefault = *input.IsDefault
	}
	if input.SortOrder != nil {
		modifier.SortOrder = *input.SortOrder
	}

	updated, err := s.repo.UpdateModifier(ctx, modifier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update modifier")
	}
	return updated, nil
}

func (s *service) DeleteModifier(ctx context.Context, modifierID uuid.UUID) error {
	if modifierID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "modifier id required")
	}
	if err := s.repo.DeleteModifier(ctx, modifierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "modifier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete modifier")
	}
	return nil
}

func (s *service) CreateAddon(ctx context.Context, input CreateAddonInput) (*models.Addon, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.UnitPrice.LessThan(types.ZeroMoney()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	addon := &models.Addon{
		ProductID:    input.ProductID,
		Name:         strings.TrimSpace(input.Name),
		UnitPrice:    input.UnitPrice,
		InventoryRef: input.InventoryRef,
		IsActive:     input.IsActive,
		SortOrder:    input.SortOrder,
	}
	created, err := s.repo.CreateAddon(ctx, addon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create addon")
	}
	return created, nil
}

func (s *service) UpdateAddon(ctx context.Context, addonID uuid.UUID, input UpdateAddonInput) (*models.Addon, error) {
	addon, err := s.repo.FindAddonByID(ctx, addonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load addon")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		addon.Name = strings.TrimSpace(*input.Name)
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.LessThan(types.ZeroMoney()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		addon.UnitPrice = *input.UnitPrice
	}
	if input.InventoryRef != nil {
		addon.InventoryRef = input.InventoryRef
	}
	if input.IsActive != nil {
		addon.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		addon.SortOrder = *input.SortOrder
	}

	updated, err := s.repo.UpdateAddon(ctx, addon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update addon")
	}
	return updated, nil
}

func (s *service) DeleteAddon(ctx context.Context, addonID uuid.UUID) error {
	if addonID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "addon id required")
	}
	if err := s.repo.DeleteAddon(ctx, addonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete addon")
	}
	return nil
}

// ResolveSelections validates the raw choices against the product's group
// rules and snapshots names and prices into cart selections.
func (s *service) ResolveSelections(ctx context.Context, productID uuid.UUID, input SelectionInput) (types.ModifierSelections, types.AddonSelections, error) {
	if productID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	groups, err := s.repo.ListGroupsByProduct(ctx, productID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load modifier groups")
	}

	requested := make(map[uuid.UUID]bool, len(input.ModifierIDs))
	for _, id := range input.ModifierIDs {
		requested[id] = true
	}

	var selections types.ModifierSelections
	for _, group := range groups {
		picked := 0
		for _, mod := range group.Modifiers {
			if !requested[mod.ID] {
				continue
			}
			picked++
			delete(requested, mod.ID)
			selections = append(selections, types.ModifierSelection{
				GroupID:         group.ID,
				GroupName:       group.Name,
				ModifierID:      mod.ID,
				ModifierName:    mod.Name,
				PriceAdjustment: mod.PriceAdjustment,
				InventoryRef:    mod.InventoryRef,
				Quantity:        1,
			})
		}

		min := group.MinSelect
		if group.Required && min < 1 {
			min = 1
		}
		if picked < min {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("group %q requires at least %d selection(s)", group.Name, min))
		}
		max := group.MaxSelect
		if !group.MultiSelect && max > 1 {
			max = 1
		}
		if max > 0 && picked > max {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("group %q allows at most %d selection(s)", group.Name, max))
		}
	}

	if len(requested) > 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "modifier does not belong to product")
	}

	var addons types.AddonSelections
	if len(input.Addons) > 0 {
		available, err := s.repo.ListAddonsForProduct(ctx, productID)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load addons")
		}
		byID := make(map[uuid.UUID]models.Addon, len(available))
		for _, addon := range available {
			byID[addon.ID] = addon
		}

		for _, choice := range input.Addons {
			if choice.Quantity <= 0 {
				continue
			}
			addon, ok := byID[choice.AddonID]
			if !ok {
				return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "addon not available for product")
			}
			addons = append(addons, types.AddonSelection{
				AddonID:      addon.ID,
				Name:         addon.Name,
				UnitPrice:    addon.UnitPrice,
				Quantity:     choice.Quantity,
				InventoryRef: addon.InventoryRef,
			})
		}
	}

	return selections, addons, nil
}

// ResolveAddon snapshots a single addon choice without re-checking group
// rules, for attaching addons to an existing cart line.
func (s *service) ResolveAddon(ctx context.Context, productID uuid.UUID, choice AddonChoice) (types.AddonSelection, error) {
	if productID == uuid.Nil {
		return types.AddonSelection{}, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if choice.Quantity <= 0 {
		return types.AddonSelection{}, pkgerrors.New(pkgerrors.CodeValidation, "addon quantity must be positive")
	}

	available, err := s.repo.ListAddonsForProduct(ctx, productID)
	if err != nil {
		return types.AddonSelection{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load addons")
	}
	for _, addon := range available {
		if addon.ID == choice.AddonID {
			return types.AddonSelection{
				AddonID:      addon.ID,
				Name:         addon.Name,
				UnitPrice:    addon.UnitPrice,
				Quantity:     choice.Quantity,
				InventoryRef: addon.InventoryRef,
			}, nil
		}
	}
	return types.AddonSelection{}, pkgerrors.New(pkgerrors.CodeValidation, "addon not available for product")
}

func (s *service) loadGroup(ctx context.Context, groupID uuid.UUID) (*models.ModifierGroup, error) {
	if groupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id required")
	}
	group, err := s.repo.FindGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "modifier group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load modifier group")
	}
	return group, nil
}

func validateSelectBounds(min, max int, multiSelect bool) error {
	if min < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_select cannot be negative")
	}
	if max < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_select cannot be negative")
	}
	if max > 0 && min > max {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_select cannot exceed max_select")
	}
	if !multiSelect && max > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "single-select group cannot allow multiple selections")
	}
	return nil
}
