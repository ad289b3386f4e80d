package viewscan

import (
	"fmt"
)

// Direction is a navigator code understood by the remote index. Directions
// proper occupy the low seven bits; MinLevel, MaxLevel and Continue are
// modifier bits OR'ed onto a direction.
type Direction uint16

const (
	NavCurrent              Direction = 0
	NavNext                 Direction = 1
	NavParent               Direction = 3
	NavChild                Direction = 4
	NavNextPeer             Direction = 5
	NavPrevPeer             Direction = 6
	NavFirstPeer            Direction = 7
	NavLastPeer             Direction = 8
	NavPrev                 Direction = 9
	NavNextUnread           Direction = 10
	NavCurrentMain          Direction = 11
	NavNextMain             Direction = 12
	NavPrevMain             Direction = 13
	NavNextSelected         Direction = 14
	NavNextExpanded         Direction = 15
	NavPrevExpanded         Direction = 16
	NavAllDescendants       Direction = 17
	NavNextUnreadMain       Direction = 18
	NavNextParent           Direction = 19
	NavPrevParent           Direction = 20
	NavPrevUnread           Direction = 21
	NavPrevSelected         Direction = 22
	NavNextExpandedUnread   Direction = 23
	NavPrevExpandedUnread   Direction = 24
	NavNextExpandedSelected Direction = 25
	NavPrevExpandedSelected Direction = 26
	NavNextExpandedCategory Direction = 27
	NavPrevExpandedCategory Direction = 28
	NavNextHit              Direction = 29
	NavPrevHit              Direction = 30
	NavCurrentHit           Direction = 31
	NavNextSelectedHit      Direction = 32
	NavPrevSelectedHit      Direction = 33
	NavPrevUnreadMain       Direction = 34
	NavNextSelectedMain     Direction = 35
	NavPrevSelectedMain     Direction = 36
	NavNextUnreadHit        Direction = 37
	NavPrevUnreadHit        Direction = 38
	NavNextExpNonCategory   Direction = 39
	NavPrevExpNonCategory   Direction = 40
	NavNextCategory         Direction = 41
	NavPrevCategory         Direction = 42
	NavNextNonCategory      Direction = 43
	NavPrevNonCategory      Direction = 44
	NavMinLevel             Direction = 0x0100
	NavMaxLevel             Direction = 0x0200
	NavContinue             Direction = 0x8000
	navDirectionMask        Direction = 0x007F
	navModifierMask                   = NavMinLevel | NavMaxLevel | NavContinue
)

type directionInfo struct {
	name     string
	backward bool
	reverse  Direction
}

// directionTable is the whole contract of this file: polarity and inverse of
// every navigator. Only the PREV family walks backwards.
var directionTable = map[Direction]directionInfo{
	NavCurrent:              {"CURRENT", false, NavCurrent},
	NavNext:                 {"NEXT", false, NavPrev},
	NavPrev:                 {"PREV", true, NavNext},
	NavParent:               {"PARENT", false, NavChild},
	NavChild:                {"CHILD", false, NavParent},
	NavNextPeer:             {"NEXT_PEER", false, NavPrevPeer},
	NavPrevPeer:             {"PREV_PEER", true, NavNextPeer},
	NavFirstPeer:            {"FIRST_PEER", false, NavLastPeer},
	NavLastPeer:             {"LAST_PEER", false, NavFirstPeer},
	NavCurrentMain:          {"CURRENT_MAIN", false, NavCurrentMain},
	NavNextMain:             {"NEXT_MAIN", false, NavPrevMain},
	NavPrevMain:             {"PREV_MAIN", true, NavNextMain},
	NavNextParent:           {"NEXT_PARENT", false, NavPrevParent},
	NavPrevParent:           {"PREV_PARENT", true, NavNextParent},
	NavAllDescendants:       {"ALL_DESCENDANTS", false, NavAllDescendants},
	NavNextUnread:           {"NEXT_UNREAD", false, NavPrevUnread},
	NavPrevUnread:           {"PREV_UNREAD", true, NavNextUnread},
	NavNextUnreadMain:       {"NEXT_UNREAD_MAIN", false, NavPrevUnreadMain},
	NavPrevUnreadMain:       {"PREV_UNREAD_MAIN", true, NavNextUnreadMain},
	NavNextSelected:         {"NEXT_SELECTED", false, NavPrevSelected},
	NavPrevSelected:         {"PREV_SELECTED", true, NavNextSelected},
	NavNextSelectedMain:     {"NEXT_SELECTED_MAIN", false, NavPrevSelectedMain},
	NavPrevSelectedMain:     {"PREV_SELECTED_MAIN", true, NavNextSelectedMain},
	NavNextExpanded:         {"NEXT_EXPANDED", false, NavPrevExpanded},
	NavPrevExpanded:         {"PREV_EXPANDED", true, NavNextExpanded},
	NavNextExpandedUnread:   {"NEXT_EXPANDED_UNREAD", false, NavPrevExpandedUnread},
	NavPrevExpandedUnread:   {"PREV_EXPANDED_UNREAD", true, NavNextExpandedUnread},
	NavNextExpandedSelected: {"NEXT_EXPANDED_SELECTED", false, NavPrevExpandedSelected},
	NavPrevExpandedSelected: {"PREV_EXPANDED_SELECTED", true, NavNextExpandedSelected},
	NavNextExpandedCategory: {"NEXT_EXPANDED_CATEGORY", false, NavPrevExpandedCategory},
	NavPrevExpandedCategory: {"PREV_EXPANDED_CATEGORY", true, NavNextExpandedCategory},
	NavNextExpNonCategory:   {"NEXT_EXP_NONCATEGORY", false, NavPrevExpNonCategory},
	NavPrevExpNonCategory:   {"PREV_EXP_NONCATEGORY", true, NavNextExpNonCategory},
	NavNextHit:              {"NEXT_HIT", false, NavPrevHit},
	NavPrevHit:              {"PREV_HIT", true, NavNextHit},
	NavCurrentHit:           {"CURRENT_HIT", false, NavCurrentHit},
	NavNextSelectedHit:      {"NEXT_SELECTED_HIT", false, NavPrevSelectedHit},
	NavPrevSelectedHit:      {"PREV_SELECTED_HIT", true, NavNextSelectedHit},
	NavNextUnreadHit:        {"NEXT_UNREAD_HIT", false, NavPrevUnreadHit},
	NavPrevUnreadHit:        {"PREV_UNREAD_HIT", true, NavNextUnreadHit},
	NavNextCategory:         {"NEXT_CATEGORY", false, NavPrevCategory},
	NavPrevCategory:         {"PREV_CATEGORY", true, NavNextCategory},
	NavNextNonCategory:      {"NEXT_NONCATEGORY", false, NavPrevNonCategory},
	NavPrevNonCategory:      {"PREV_NONCATEGORY", true, NavNextNonCategory},
	NavMinLevel:             {"MINLEVEL", false, NavMinLevel},
	NavMaxLevel:             {"MAXLEVEL", false, NavMaxLevel},
	NavContinue:             {"CONTINUE", false, NavContinue},
}

// Directions lists every known navigator in code order.
func Directions() []Direction {
	out := make([]Direction, 0, len(directionTable))
	for d := NavCurrent; d <= NavPrevNonCategory; d++ {
		if _, ok := directionTable[d]; ok {
			out = append(out, d)
		}
	}
	return append(out, NavMinLevel, NavMaxLevel, NavContinue)
}

func (d Direction) String() string {
	if info, ok := directionTable[d]; ok {
		return info.name
	}
	return fmt.Sprintf("Direction(%d)", uint16(d))
}

// IsModifier reports whether d is one of the modifier bits.
func (d Direction) IsModifier() bool {
	return d&navModifierMask != 0 && d&navDirectionMask == 0
}

// IsBackward reports the polarity of d.
func (d Direction) IsBackward() bool {
	return directionTable[d].backward
}

// ToBitmask ORs the navigator codes into the value sent to the remote index.
// Directions are codes, not bits: only one direction plus modifier bits such
// as NavContinue is meaningful. ToBitmask(NavNext, NavPrevCategory) is
// NavNextNonCategory.
func ToBitmask(dirs ...Direction) uint16 {
	var mask uint16
	for _, d := range dirs {
		mask |= uint16(d)
	}
	return mask
}

// IsDescending reports whether any of dirs walks backwards. Mixed sets count
// as descending, the way the remote index reads them.
func IsDescending(dirs ...Direction) bool {
	for _, d := range dirs {
		if d.IsBackward() {
			return true
		}
	}
	return false
}

// Reverse returns the navigator that undoes d. It panics for codes outside
// the table; every known direction has an inverse.
func Reverse(d Direction) Direction {
	info, ok := directionTable[d]
	if !ok {
		panic(fmt.Sprintf("viewscan: no inverse for navigator %d", uint16(d)))
	}
	return info.reverse
}

// ReverseAll reverses every direction of a set, keeping modifiers.
func ReverseAll(dirs ...Direction) []Direction {
	out := make([]Direction, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, Reverse(d))
	}
	return out
}

// SplitNavigator separates a wire value into its direction and modifiers.
func SplitNavigator(mask uint16) (Direction, Direction) {
	return Direction(mask) & navDirectionMask, Direction(mask) & navModifierMask
}
