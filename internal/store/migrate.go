package store

import "go.uber.org/zap"

// Migrate is the one isolated startup step that compares the persisted cache
// version marker against the running build's expected marker. On mismatch the
// whole store is wiped (never selectively) and the marker rewritten. Returns
// true when a wipe happened.
func Migrate(s Store, expectedMarker string, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	current, ok := s.Get(keyMarker)
	if ok && current == expectedMarker {
		return false, nil
	}
	if err := s.Clear(); err != nil {
		return false, err
	}
	if err := s.Set(keyMarker, expectedMarker); err != nil {
		return false, err
	}
	logger.Info("cache wiped for new version marker",
		zap.String("previous", current), zap.String("marker", expectedMarker))
	return true, nil
}
