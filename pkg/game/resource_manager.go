package game

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"golang.org/x/sync/errgroup"
)

// ResourceManager loads and caches the assets of one beatmap folder:
// sprite textures and the song audio stream.
//
// Storyboard scripts reference files case-insensitively and with either
// slash style, so lookups go through an index of the folder's actual
// files built once at construction.
//
// The image cache is guarded by a RWMutex because PreloadImages decodes
// textures from several goroutines.
type ResourceManager struct {
	baseDir      string
	audioContext *audio.Context

	mu         sync.RWMutex
	imageCache map[string]*ebiten.Image

	// fileIndex maps lowercased slash-normalized relative paths to the
	// real path on disk.
	fileIndex map[string]string
}

// NewResourceManager creates a resource manager for one beatmap folder.
// The audio context is created once at startup (48000 Hz) and shared.
func NewResourceManager(baseDir string, audioContext *audio.Context) (*ResourceManager, error) {
	rm := &ResourceManager{
		baseDir:      baseDir,
		audioContext: audioContext,
		imageCache:   make(map[string]*ebiten.Image),
		fileIndex:    make(map[string]string),
	}
	if err := rm.buildFileIndex(); err != nil {
		return nil, err
	}
	return rm, nil
}

func (rm *ResourceManager) buildFileIndex() error {
	err := filepath.WalkDir(rm.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rm.baseDir, path)
		if err != nil {
			return err
		}
		rm.fileIndex[normalizeAssetPath(rel)] = path
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index beatmap folder %s: %w", rm.baseDir, err)
	}
	return nil
}

// normalizeAssetPath lowercases a script path and unifies its separators
// so it can be matched against the on-disk file index.
func normalizeAssetPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.ReplaceAll(p, string(filepath.Separator), "/")
	return strings.ToLower(strings.TrimSpace(p))
}

// ResolvePath maps a script-relative asset path to the real path on
// disk, case-insensitively. The second return is false when the folder
// has no such file.
func (rm *ResourceManager) ResolvePath(scriptPath string) (string, bool) {
	real, ok := rm.fileIndex[normalizeAssetPath(scriptPath)]
	return real, ok
}

// LoadImage loads a sprite texture by its script path and caches it.
// Repeated loads return the cached texture.
func (rm *ResourceManager) LoadImage(scriptPath string) (*ebiten.Image, error) {
	key := normalizeAssetPath(scriptPath)

	rm.mu.RLock()
	cached, exists := rm.imageCache[key]
	rm.mu.RUnlock()
	if exists {
		return cached, nil
	}

	realPath, ok := rm.fileIndex[key]
	if !ok {
		return nil, fmt.Errorf("image not found in beatmap folder: %s", scriptPath)
	}

	file, err := os.Open(realPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", realPath, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", realPath, err)
	}
	ebitenImg := ebiten.NewImageFromImage(img)

	rm.mu.Lock()
	rm.imageCache[key] = ebitenImg
	rm.mu.Unlock()

	return ebitenImg, nil
}

// Image returns the cached texture for a script path, or nil when it was
// never loaded. Meant for the per-frame draw path, which must not hit
// the disk.
func (rm *ResourceManager) Image(scriptPath string) *ebiten.Image {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.imageCache[normalizeAssetPath(scriptPath)]
}

// PreloadImages loads all given script paths concurrently, so playback
// starts with every texture already decoded. Missing files are skipped;
// storyboards routinely reference images the mapper never shipped. Other
// failures abort the preload.
func (rm *ResourceManager) PreloadImages(scriptPaths []string) error {
	var g errgroup.Group
	g.SetLimit(8)
	for _, p := range scriptPaths {
		g.Go(func() error {
			if _, ok := rm.ResolvePath(p); !ok {
				return nil
			}
			_, err := rm.LoadImage(p)
			return err
		})
	}
	return g.Wait()
}

// ImageCount returns the number of cached textures.
func (rm *ResourceManager) ImageCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.imageCache)
}

// LoadSongPlayer loads the beatmap song and returns a seekable audio
// player for it. Supported formats: MP3 (.mp3) and OGG Vorbis (.ogg).
func (rm *ResourceManager) LoadSongPlayer(scriptPath string) (*audio.Player, error) {
	realPath, ok := rm.ResolvePath(scriptPath)
	if !ok {
		return nil, fmt.Errorf("audio file not found in beatmap folder: %s", scriptPath)
	}

	file, err := os.Open(realPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file %s: %w", realPath, err)
	}
	defer file.Close()

	// Read the entire file into memory so the stream can seek without
	// keeping the file open.
	audioData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", realPath, err)
	}
	reader := bytes.NewReader(audioData)

	var stream io.ReadSeeker
	switch ext := strings.ToLower(filepath.Ext(realPath)); ext {
	case ".mp3":
		decodedStream, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", realPath, err)
		}
		stream = decodedStream
	case ".ogg":
		decodedStream, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", realPath, err)
		}
		stream = decodedStream
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg)", ext)
	}

	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", realPath, err)
	}
	return player, nil
}
