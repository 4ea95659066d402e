package model

import "encoding/json"

// CloneFresh deep-copies a resource and assigns a new id to every node inside it.
// New ids are drawn against taken, which is updated in place.
func CloneFresh(r Resource, taken map[string]bool) Resource {
	switch {
	case r.IsBlock():
		return BlockResource(cloneBlockFresh(*r.Block, taken))
	case r.IsConstructor():
		return ConstructorResource(CloneRowFresh(*r.Row, taken))
	default:
		return r
	}
}

func CloneRowFresh(r Row, taken map[string]bool) Row {
	out := Row{
		ID:         FreshID(PrefixRow, taken),
		Props:      cloneRaw(r.Props),
		EmptyState: r.EmptyState,
		Cells:      make([]Cell, 0, len(r.Cells)),
	}
	for _, c := range r.Cells {
		nc := Cell{ID: FreshID(PrefixCell, taken), Resources: make([]Resource, 0, len(c.Resources))}
		for _, res := range c.Resources {
			nc.Resources = append(nc.Resources, CloneFresh(res, taken))
		}
		out.Cells = append(out.Cells, nc)
	}
	return out
}

func cloneBlockFresh(b Block, taken map[string]bool) Block {
	out := Block{
		ID:      FreshID(PrefixBlock, taken),
		Type:    b.Type,
		Title:   b.Title,
		Payload: cloneRaw(b.Payload),
	}
	if b.Columns != nil {
		out.Columns = make([][]Block, len(b.Columns))
		for i, col := range b.Columns {
			out.Columns[i] = make([]Block, 0, len(col))
			for _, child := range col {
				out.Columns[i] = append(out.Columns[i], cloneBlockFresh(child, taken))
			}
		}
	}
	return out
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}
