// Package model defines the typed form model shared by the rollout form
// builder, the renderers and the in-memory DOM. A FormModel is a flat list of
// fields; select and checkbox-list fields carry their Options, and derived
// fields (the commit box) record their initial Disabled state so every
// renderer starts from the same snapshot. Metadata holds renderer-agnostic
// string directives such as the element id scheme used for option inputs.
package model
