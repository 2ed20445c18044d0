package storyboard

import (
	"testing"
)

// TestParseScene_SpriteHeader tests parsing of sprite declaration lines.
func TestParseScene_SpriteHeader(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Foreground,TopLeft,"sb/cloud.png",320,240`,
	})
	if len(scene.Sprites) != 1 {
		t.Fatalf("expected 1 sprite, got %d", len(scene.Sprites))
	}
	sp := scene.Sprites[0]
	if sp.ID != 0 {
		t.Errorf("ID = %d, expected 0", sp.ID)
	}
	if sp.Layer != LayerForeground {
		t.Errorf("Layer = %v, expected Foreground", sp.Layer)
	}
	if sp.Origin != OriginTopLeft {
		t.Errorf("Origin = %v, expected TopLeft", sp.Origin)
	}
	if sp.FilePath != "sb/cloud.png" {
		t.Errorf("FilePath = %q, expected quotes stripped", sp.FilePath)
	}
	if sp.X != 320 || sp.Y != 240 {
		t.Errorf("position = (%v, %v), expected (320, 240)", sp.X, sp.Y)
	}
}

// TestParseScene_CaseInsensitiveNames tests that layer and origin names
// resolve case-insensitively and unrecognized origins default to Centre.
func TestParseScene_CaseInsensitiveNames(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantLayer  Layer
		wantOrigin Origin
	}{
		{"lowercase", `Sprite,background,centre,"bg.jpg",0,0`, LayerBackground, OriginCentre},
		{"uppercase", `Sprite,OVERLAY,BOTTOMRIGHT,"a.png",1,2`, LayerOverlay, OriginBottomRight},
		{"unknown origin defaults", `Sprite,Pass,Custom,"a.png",1,2`, LayerPass, OriginCentre},
		{"unknown layer defaults", `Sprite,Nowhere,Centre,"a.png",1,2`, LayerBackground, OriginCentre},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := ParseScene("test.osb", []string{tt.line})
			if len(scene.Sprites) != 1 {
				t.Fatalf("expected 1 sprite, got %d", len(scene.Sprites))
			}
			sp := scene.Sprites[0]
			if sp.Layer != tt.wantLayer {
				t.Errorf("Layer = %v, expected %v", sp.Layer, tt.wantLayer)
			}
			if sp.Origin != tt.wantOrigin {
				t.Errorf("Origin = %v, expected %v", sp.Origin, tt.wantOrigin)
			}
		})
	}
}

// TestParseScene_Animation tests parsing of animated sprite headers.
func TestParseScene_Animation(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Animation,Foreground,Centre,"sb/flame.png",110,60,10,40,LoopOnce`,
	})
	if len(scene.Sprites) != 1 {
		t.Fatalf("expected 1 sprite, got %d", len(scene.Sprites))
	}
	sp := scene.Sprites[0]
	if !sp.IsAnimation {
		t.Fatal("IsAnimation = false")
	}
	if sp.FrameCount != 10 || sp.FrameDelay != 40 {
		t.Errorf("frames = (%d, %v), expected (10, 40)", sp.FrameCount, sp.FrameDelay)
	}
	if sp.LoopType != LoopOnce {
		t.Errorf("LoopType = %v, expected LoopOnce", sp.LoopType)
	}
	if got := sp.FramePath(3); got != "sb/flame3.png" {
		t.Errorf("FramePath(3) = %q, expected sb/flame3.png", got)
	}
}

// TestParseScene_Commands tests that every command code parses into the
// matching kind with its declared value arity.
func TestParseScene_Commands(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",320,240`,
		` F,0,0,1000,0,1`,
		` M,1,0,1000,100,200,300,400`,
		` MX,0,0,1000,50,150`,
		` MY,0,0,1000,60,160`,
		` S,2,0,1000,1,2`,
		` V,0,0,1000,1,1,2,3`,
		` R,0,0,1000,0,3.14159`,
		` C,0,0,1000,255,128,0,0,64,255`,
		` P,0,0,1000,H`,
	})
	if len(scene.Sprites) != 1 {
		t.Fatalf("expected 1 sprite, got %d", len(scene.Sprites))
	}
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 9 {
		t.Fatalf("expected 9 commands, got %d", len(cmds))
	}

	wantKinds := []CommandType{
		CommandFade, CommandMove, CommandMoveX, CommandMoveY,
		CommandScale, CommandVectorScale, CommandRotate,
		CommandColor, CommandParameter,
	}
	for i, want := range wantKinds {
		if cmds[i].Type != want {
			t.Errorf("command %d: kind = %v, expected %v", i, cmds[i].Type, want)
		}
	}

	move := cmds[1]
	if move.StartValues != [3]float64{100, 200, 0} || move.EndValues != [3]float64{300, 400, 0} {
		t.Errorf("move values = %v -> %v", move.StartValues, move.EndValues)
	}
	if move.Easing != EasingOut {
		t.Errorf("move easing = %v, expected EasingOut", move.Easing)
	}
	color := cmds[7]
	if color.StartValues != [3]float64{255, 128, 0} || color.EndValues != [3]float64{0, 64, 255} {
		t.Errorf("color values = %v -> %v", color.StartValues, color.EndValues)
	}
	if cmds[8].Param != ParamFlipH {
		t.Errorf("parameter = %v, expected H", cmds[8].Param)
	}
}

// TestParseScene_ShortEndValues tests that omitted end values fall back
// to the start values, declaring a flat property.
func TestParseScene_ShortEndValues(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",320,240`,
		` M,0,0,1000,100,200`,
	})
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	if cmds[0].EndValues != [3]float64{100, 200, 0} {
		t.Errorf("end values = %v, expected fallback to start values", cmds[0].EndValues)
	}
}

// TestParseScene_OpenEnded tests the empty-end-field sentinel: equal
// values keep the command open-ended, differing values become an
// instantaneous change.
func TestParseScene_OpenEnded(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",320,240`,
		` F,0,1000,,0,0`,
		` F,0,2000,,0,1`,
	})
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if !cmds[0].OpenEnded {
		t.Error("equal-value command should stay open-ended")
	}
	if cmds[1].OpenEnded {
		t.Error("differing-value command should not stay open-ended")
	}
	if cmds[1].EndTime != cmds[1].StartTime {
		t.Errorf("instantaneous EndTime = %v, expected %v", cmds[1].EndTime, cmds[1].StartTime)
	}
}

// TestParseScene_MalformedLines tests that malformed content is silently
// dropped without aborting the parse.
func TestParseScene_MalformedLines(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`// storyboard`,
		``,
		`[Events]`,
		`garbage line`,
		`Sprite,Background,Centre`,          // too short: sprite dropped
		` F,0,0,1000,0,1`,                   // no current sprite: dropped
		`Sprite,Background,Centre,"bg.png",abc,240`, // bad number: dropped
		`Sprite,Background,Centre,"bg.png",0,0`,
		` F,0,zzz,1000,0,1`,   // bad start time
		` F,0,0,1000`,         // missing values
		` Q,0,0,1000,1`,       // unknown code
		` P,0,0,1000,X`,       // unknown parameter
		` F,0,0,1000,0,1`,     // valid
	})
	if len(scene.Sprites) != 1 {
		t.Fatalf("expected 1 surviving sprite, got %d", len(scene.Sprites))
	}
	if len(scene.Sprites[0].Commands) != 1 {
		t.Errorf("expected 1 surviving command, got %d", len(scene.Sprites[0].Commands))
	}
}

// TestParseScene_LoopGroup tests indentation-based loop grouping: deeper
// lines buffer into the loop, a dedent closes it.
func TestParseScene_LoopGroup(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",0,0`,
		` L,1000,3`,
		`  M,0,0,500,0,0,100,0`,
		`  F,0,0,250,1,0`,
		` S,0,5000,6000,1,2`,
	})
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("expected loop + scale, got %d commands", len(cmds))
	}
	loop := cmds[0]
	if loop.Type != CommandLoop {
		t.Fatalf("first command = %v, expected Loop", loop.Type)
	}
	if loop.LoopStartTime != 1000 || loop.LoopCount != 3 {
		t.Errorf("loop header = (%v, %d), expected (1000, 3)", loop.LoopStartTime, loop.LoopCount)
	}
	if len(loop.Children) != 2 {
		t.Fatalf("expected 2 nested commands, got %d", len(loop.Children))
	}
	if loop.Children[0].Type != CommandMove || loop.Children[1].Type != CommandFade {
		t.Errorf("nested kinds = %v, %v", loop.Children[0].Type, loop.Children[1].Type)
	}
	if cmds[1].Type != CommandScale {
		t.Errorf("dedented command = %v, expected Scale", cmds[1].Type)
	}
}

// TestParseScene_LoopClosedByEOF tests that end of input closes an open
// loop group.
func TestParseScene_LoopClosedByEOF(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",0,0`,
		` L,0,2`,
		`  F,0,0,100,0,1`,
	})
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 1 || cmds[0].Type != CommandLoop {
		t.Fatalf("expected a single loop command, got %v", cmds)
	}
}

// TestParseScene_UnderscoreIndent tests that underscore indentation
// (emitted by the official editor) nests like spaces.
func TestParseScene_UnderscoreIndent(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",0,0`,
		`_L,0,2`,
		`__F,0,0,100,0,1`,
	})
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 1 || cmds[0].Type != CommandLoop {
		t.Fatalf("expected a single loop command, got %d commands", len(cmds))
	}
}

// TestParseScene_TriggerFlattened tests that trigger groups emit their
// buffered commands as ordinary sprite commands.
func TestParseScene_TriggerFlattened(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",0,0`,
		` T,HitSound,0,10000`,
		`  F,0,0,100,0,1`,
		`  S,0,0,100,1,2`,
	})
	cmds := scene.Sprites[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("expected 2 flattened commands, got %d", len(cmds))
	}
	for _, cmd := range cmds {
		if cmd.Type == CommandLoop {
			t.Error("trigger group should not produce a loop command")
		}
	}
}

// TestParseScene_NestedLoopDropped tests that a loop header inside an
// open group is dropped rather than expanded with guessed timing.
func TestParseScene_NestedLoopDropped(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",0,0`,
		` L,0,2`,
		`  F,0,0,100,0,1`,
		`  L,50,2`,
		`   S,0,0,10,1,1`,
		` F,0,5000,6000,1,0`,
	})
	cmds := scene.Sprites[0].Commands
	for i := range cmds {
		if cmds[i].Type == CommandLoop {
			for _, child := range cmds[i].Children {
				if child.Type == CommandLoop {
					t.Fatal("nested loop was not dropped")
				}
			}
		}
	}
}

// TestParseScene_SortedInsertion tests that a sprite's command list is
// kept in non-decreasing start-time order regardless of script order.
func TestParseScene_SortedInsertion(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"bg.png",0,0`,
		` F,0,3000,4000,0,1`,
		` F,0,1000,2000,1,0`,
		` F,0,2000,2500,0,1`,
	})
	cmds := scene.Sprites[0].Commands
	for i := 1; i < len(cmds); i++ {
		if cmds[i].StartTime < cmds[i-1].StartTime {
			t.Fatalf("commands out of order at %d: %v after %v", i, cmds[i].StartTime, cmds[i-1].StartTime)
		}
	}
}

// TestParseScene_MultipleSprites tests sprite ids and declaration order.
func TestParseScene_MultipleSprites(t *testing.T) {
	scene := ParseScene("test.osb", []string{
		`Sprite,Background,Centre,"a.png",0,0`,
		` F,0,0,100,0,1`,
		`Sprite,Foreground,Centre,"b.png",10,20`,
		` F,0,0,100,1,0`,
	})
	if len(scene.Sprites) != 2 {
		t.Fatalf("expected 2 sprites, got %d", len(scene.Sprites))
	}
	for i, sp := range scene.Sprites {
		if sp.ID != i {
			t.Errorf("sprite %d has ID %d", i, sp.ID)
		}
		if len(sp.Commands) != 1 {
			t.Errorf("sprite %d has %d commands, expected 1", i, len(sp.Commands))
		}
	}
}

// TestParseScene_Empty tests that empty or comment-only input degrades to
// an empty scene.
func TestParseScene_Empty(t *testing.T) {
	for _, lines := range [][]string{nil, {}, {"", "// nothing", "   "}} {
		scene := ParseScene("test.osb", lines)
		if len(scene.Sprites) != 0 {
			t.Errorf("expected empty scene, got %d sprites", len(scene.Sprites))
		}
	}
}
