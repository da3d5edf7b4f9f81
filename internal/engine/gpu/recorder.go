package gpu

// Recorder is an in-memory Buffer. It mirrors the uploaded bytes and keeps
// a log of every call so tests can assert exactly what reached the GPU.
type Recorder struct {
	Creates int
	Deletes int
	Writes  []Range

	data []byte
	live bool
}

// Create implements Buffer.
func (r *Recorder) Create(data []byte) {
	r.Creates++
	r.data = append([]byte(nil), data...)
	r.live = true
}

// Write implements Buffer. The range is copied; out-of-bounds writes are
// logged but not applied.
func (r *Recorder) Write(rg Range) {
	rg.Data = append([]byte(nil), rg.Data...)
	r.Writes = append(r.Writes, rg)
	if !r.live || rg.Offset < 0 || rg.End() > len(r.data) {
		return
	}
	copy(r.data[rg.Offset:], rg.Data)
}

// Delete implements Buffer.
func (r *Recorder) Delete() {
	r.Deletes++
	r.data = nil
	r.live = false
}

// Bytes returns the mirrored buffer contents.
func (r *Recorder) Bytes() []byte {
	return r.data
}

// Live reports whether storage exists.
func (r *Recorder) Live() bool {
	return r.live
}

// LastWrite returns the most recent write.
func (r *Recorder) LastWrite() (Range, bool) {
	if len(r.Writes) == 0 {
		return Range{}, false
	}
	return r.Writes[len(r.Writes)-1], true
}

// Reset clears the call log but keeps the mirrored data.
func (r *Recorder) Reset() {
	r.Creates, r.Deletes = 0, 0
	r.Writes = nil
}
