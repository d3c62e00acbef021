package mcpconfig

// MergeDocuments merges newly generated records into an existing
// server-configuration document. Replacement is shallow at the connector-id
// level: an incoming record fully replaces the existing one for the same id,
// never field-by-field. Neither input is mutated.
func MergeDocuments(incoming, existing *Document) *Document {
	merged := NewDocument()

	if existing != nil {
		for id, rec := range existing.MCPServers {
			merged.MCPServers[id] = rec.Clone()
		}
	}
	if incoming != nil {
		for id, rec := range incoming.MCPServers {
			merged.MCPServers[id] = rec.Clone()
		}
	}

	return merged
}

// MergeModes merges newly generated mode records into an existing registry,
// matching by slug. Neither input is mutated.
//
// For an existing project-sourced record, the user's Name and
// CustomInstructions are treated as customizations and kept, while
// RoleDefinition and Model come from the incoming record and Groups are
// unioned (incoming first). Records with any other source are never touched
// by automated merges. New slugs are appended in incoming order.
func MergeModes(incoming []ModeRecord, existing *ModesDocument) *ModesDocument {
	merged := NewModesDocument()
	if existing != nil {
		for _, m := range existing.CustomModes {
			merged.CustomModes = append(merged.CustomModes, m.Clone())
		}
	}

	for _, in := range incoming {
		current, idx := merged.Find(in.Slug)
		if idx < 0 {
			merged.CustomModes = append(merged.CustomModes, in.Clone())
			continue
		}

		if current.Source != SourceProject {
			// User/system/global records are off-limits.
			continue
		}

		updated := in.Clone()
		updated.Name = current.Name
		updated.CustomInstructions = current.CustomInstructions
		updated.Groups = unionGroups(in.Groups, current.Groups)
		updated.Source = SourceProject
		merged.CustomModes[idx] = updated
	}

	return merged
}

// unionGroups merges group lists keeping incoming order first, then any
// existing group not already present.
func unionGroups(incoming, existing []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, g := range incoming {
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	for _, g := range existing {
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
