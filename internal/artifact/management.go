package artifact

import "github.com/protoc-build/protocgen/internal/model"

// applyManagement fills in version/type/classifier from management when
// they are missing or blank on key. A blank version means "use the
// managed version"; a non-blank version is never overridden.
func applyManagement(key model.ArtifactKey, management DependencyManagement) model.ArtifactKey {
	lookupKey := managementKeyFor(key.GroupID, key.ArtifactID, key.Classifier, key.Type)
	entry, ok := management[lookupKey]
	if !ok {
		return key
	}
	out := key
	if out.Version == "" {
		out.Version = entry.Version
	}
	if out.Type == "" {
		out.Type = entry.Type
	}
	if out.Classifier == "" {
		out.Classifier = entry.Classifier
	}
	return out
}
