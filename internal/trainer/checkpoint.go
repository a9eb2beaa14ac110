package trainer

// SaveCheckpoint persists the best weights seen so far to the configured
// checkpoint path. The run loop ignores the returned error; a failed
// checkpoint never aborts training.
func (t *Trainer) SaveCheckpoint() error {
	if t.cfg.CheckpointPath == "" {
		return nil
	}
	return WriteWeightsFile(t.cfg.CheckpointPath, t.crafter.Best())
}
