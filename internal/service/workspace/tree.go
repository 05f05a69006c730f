package workspace

import (
	"context"
)

// DescendantFolderIDs returns the ids of all active folders reachable by
// following parent pointers downward from rootID, excluding rootID itself.
//
// The walk is an explicit frontier queue with a visited set rather than
// recursion: arbitrarily deep or malformed trees cannot overflow the call
// stack, and a folder is processed at most once, so even a corrupted parent
// cycle terminates.
func (s *Service) DescendantFolderIDs(ctx context.Context, rootID string) ([]string, error) {
	return s.descendantIDs(ctx, rootID, s.folders.ListChildIDs)
}

// descendantFolderIDsAll is the same walk over folders in any trash state.
// The permanent-delete path needs it: a trashed subtree is invisible to the
// active-only walk.
func (s *Service) descendantFolderIDsAll(ctx context.Context, rootID string) ([]string, error) {
	return s.descendantIDs(ctx, rootID, s.folders.ListChildIDsAll)
}

func (s *Service) descendantIDs(ctx context.Context, rootID string, children func(context.Context, []string) ([]string, error)) ([]string, error) {
	visited := map[string]bool{rootID: true}
	frontier := []string{rootID}
	var descendants []string

	for len(frontier) > 0 {
		childIDs, err := children(ctx, frontier)
		if err != nil {
			return nil, err
		}

		next := make([]string, 0, len(childIDs))
		for _, id := range childIDs {
			if visited[id] {
				continue
			}
			visited[id] = true
			descendants = append(descendants, id)
			next = append(next, id)
		}
		frontier = next
	}

	return descendants, nil
}
