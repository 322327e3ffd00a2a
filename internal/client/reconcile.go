package client

// Diff is the minimal change turning a known room id set into a snapshot.
type Diff struct {
	Remove []string
	Add    []string
	// Next is the resulting id order: surviving ids keep their position,
	// added ids follow in snapshot order.
	Next []string
}

// Empty reports whether applying the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// Reconcile diffs the known ids against an authoritative snapshot.
// Duplicates in the snapshot collapse to one entry.
func Reconcile(known, snapshot []string) Diff {
	want := make(map[string]struct{}, len(snapshot))
	for _, id := range snapshot {
		want[id] = struct{}{}
	}

	var d Diff
	have := make(map[string]struct{}, len(known))
	for _, id := range known {
		if _, ok := want[id]; !ok {
			d.Remove = append(d.Remove, id)
			continue
		}
		if _, dup := have[id]; dup {
			continue
		}
		have[id] = struct{}{}
		d.Next = append(d.Next, id)
	}

	for _, id := range snapshot {
		if _, ok := have[id]; ok {
			continue
		}
		have[id] = struct{}{}
		d.Add = append(d.Add, id)
		d.Next = append(d.Next, id)
	}
	return d
}
