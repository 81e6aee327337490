package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestFromSnapshotRoundTrip(t *testing.T) {
	g := fourPlayerGame(t, 6, 3, 6, 2)
	g.RollDice()
	g.MovePiece(Red, 0)
	g.RollDice()
	g.MovePiece(Red, 0)

	snap := g.Snapshot()
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if !reflect.DeepEqual(snap, restored.Snapshot()) {
		t.Error("restored game snapshot differs from the original")
	}
}

func TestFromSnapshotRejectsBadStates(t *testing.T) {
	base := testSnapshot(Red, 0, StageRoll, nil)

	missing := *base
	missing.CurrentPlayer = nil
	if _, err := FromSnapshot(&missing); err == nil {
		t.Error("accepted in-progress snapshot without a current player")
	}

	badSquare := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red: {onTrack(0, 77)},
	})
	if _, err := FromSnapshot(badSquare); err == nil {
		t.Error("accepted track square out of range")
	}

	badStretch := testSnapshot(Red, 0, StageRoll, map[Color][]PieceState{
		Red: {inStretch(0, 6)},
	})
	if _, err := FromSnapshot(badStretch); err == nil {
		t.Error("accepted stretch index out of range")
	}

	badDice := testSnapshot(Red, 9, StageMove, nil)
	if _, err := FromSnapshot(badDice); err == nil {
		t.Error("accepted move stage with dice out of range")
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	g := fourPlayerGame(t, 6)
	raw, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)

	// Colors serialize as names, including as the player map keys.
	for _, key := range []string{`"red"`, `"green"`, `"yellow"`, `"blue"`, `"in_progress"`, `"current_player"`} {
		if !strings.Contains(s, key) {
			t.Errorf("snapshot JSON missing %s: %s", key, s)
		}
	}

	var decoded Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Phase != InProgress || len(decoded.Players) != 4 {
		t.Errorf("decoded snapshot = %+v", decoded)
	}
}
