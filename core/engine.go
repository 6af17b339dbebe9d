package core

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/signalsfoundry/satcom-simulator/internal/logging"
)

// Engine owns every entity collection in the simulation and is the
// only component that mutates them. It is single-threaded by design:
// Tick and the command methods must be called from one goroutine,
// normally the host's game loop. The engine performs no I/O and
// never blocks.
//
// Time is simulated: the clock starts at the configured start time
// and advances only through Tick(deltaMs).
type Engine struct {
	cfg     Config
	log     logging.Logger
	metrics MetricsRecorder
	rng     *rand.Rand

	resolveNation NationResolver

	startTime time.Time
	now       time.Time

	satellites    []*Satellite
	stations      []*GroundStation
	transmissions []*SignalTransmission
	interference  []*SignalInterference

	// motionModels caches per-satellite propagators so SGP4 state is
	// built once per TLE satellite.
	motionModels map[string]MotionModel

	satSeq     uint64
	stationSeq uint64
	txSeq      uint64
	zoneSeq    uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithNationResolver injects the owner-resolution lookup used by the
// creation commands.
func WithNationResolver(r NationResolver) Option {
	return func(e *Engine) { e.resolveNation = r }
}

// WithLogger sets the engine logger; the default drops everything.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics wires a metrics recorder into the tick path.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRand sets the random source, mainly for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithStartTime sets the initial simulation time (default: now, UTC).
func WithStartTime(t time.Time) Option {
	return func(e *Engine) { e.startTime = t }
}

// NewEngine constructs an engine with the given tuning. Zero-valued
// config fields fall back to DefaultConfig.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:          cfg.withDefaults(),
		log:          logging.Noop(),
		metrics:      noopMetrics{},
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		startTime:    time.Now().UTC(),
		motionModels: make(map[string]MotionModel),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolveNation == nil {
		e.resolveNation = func(string) *Nation { return nil }
	}
	e.now = e.startTime
	return e
}

// Now returns the current simulation time.
func (e *Engine) Now() time.Time { return e.now }

// Config returns the effective engine tuning.
func (e *Engine) Config() Config { return e.cfg }

//
// ---------- Commands ----------
//

// DeploySatellite creates a satellite for the given owner with
// type-banded orbital elements and randomized RF characteristics.
// It returns nil when the owner id does not resolve; that is the only
// failure mode and nothing is mutated in that case.
func (e *Engine) DeploySatellite(ownerID string, typ SatelliteType, name string) *Satellite {
	nation := e.resolveNation(ownerID)
	if nation == nil {
		e.log.Warn(context.Background(), "deploy rejected: unknown owner",
			logging.String("owner_id", ownerID))
		return nil
	}

	e.satSeq++
	id := fmt.Sprintf("sat-%d", e.satSeq)
	if name == "" {
		name = fmt.Sprintf("%s %s-%d", nation.Name, typ, e.satSeq)
	}

	sat := &Satellite{
		ID:               id,
		OwnerID:          ownerID,
		Name:             name,
		Type:             typ,
		Elements:         e.elementsForType(typ),
		TransmitPowerDBW: e.randRange(10, 20),
		AntennaGainDBi:   e.randRange(25, 40),
		FrequencyGHz:     e.frequencyForType(typ),
		Operational:      true,
		Health:           100,
		DeployedAt:       e.now,
		TTL:              time.Duration(e.randRange(30, 90)) * time.Minute,
	}
	sat.Position = PropagateGeodetic(sat.Elements, e.now)

	e.satellites = append(e.satellites, sat)
	e.log.Info(context.Background(), "satellite deployed",
		logging.String("id", sat.ID),
		logging.String("owner_id", ownerID),
		logging.String("type", string(typ)),
		logging.Any("altitude_km", sat.Position.AltitudeKm))
	return sat
}

// DeploySatelliteFromTLE injects a catalog satellite propagated by
// SGP4 instead of generated Keplerian elements. Owner validation and
// lifecycle rules match DeploySatellite.
func (e *Engine) DeploySatelliteFromTLE(ownerID string, typ SatelliteType, name, line1, line2 string) *Satellite {
	nation := e.resolveNation(ownerID)
	if nation == nil || line1 == "" || line2 == "" {
		return nil
	}

	e.satSeq++
	sat := &Satellite{
		ID:               fmt.Sprintf("sat-%d", e.satSeq),
		OwnerID:          ownerID,
		Name:             name,
		Type:             typ,
		MotionSource:     MotionTLE,
		TLELine1:         line1,
		TLELine2:         line2,
		TransmitPowerDBW: e.randRange(10, 20),
		AntennaGainDBi:   e.randRange(25, 40),
		FrequencyGHz:     e.frequencyForType(typ),
		Operational:      true,
		Health:           100,
		DeployedAt:       e.now,
		TTL:              time.Duration(e.randRange(30, 90)) * time.Minute,
	}
	model := motionModelFor(sat)
	model.UpdatePosition(e.now, sat)
	e.motionModels[sat.ID] = model

	e.satellites = append(e.satellites, sat)
	return sat
}

// BuildGroundStation creates a receiver station for the given owner
// with randomized antenna and receiver characteristics. Returns nil
// when the owner id does not resolve.
func (e *Engine) BuildGroundStation(ownerID string, lonDeg, latDeg float64, name string) *GroundStation {
	nation := e.resolveNation(ownerID)
	if nation == nil {
		e.log.Warn(context.Background(), "station rejected: unknown owner",
			logging.String("owner_id", ownerID))
		return nil
	}

	e.stationSeq++
	id := fmt.Sprintf("gs-%d", e.stationSeq)
	if name == "" {
		name = fmt.Sprintf("%s Station %d", nation.Name, e.stationSeq)
	}

	gs := &GroundStation{
		ID:                     id,
		OwnerID:                ownerID,
		Name:                   name,
		LonDeg:                 normalizeLonDeg(lonDeg),
		LatDeg:                 clamp(latDeg, -90, 90),
		AntennaDiameterM:       e.randRange(3, 15),
		ReceiverSensitivityDBm: e.randRange(-120, -90),
		MinElevationDeg:        e.randRange(5, 15),
		Operational:            true,
	}
	e.stations = append(e.stations, gs)
	e.log.Info(context.Background(), "ground station built",
		logging.String("id", gs.ID),
		logging.String("owner_id", ownerID))
	return gs
}

// TransmitSignal starts a transmission from the given satellite,
// snapshotting every operational station that can currently see it as
// a target. No-op when the satellite is missing or non-operational.
func (e *Engine) TransmitSignal(satelliteID string) {
	sat := e.findSatellite(satelliteID)
	if sat == nil || !sat.Operational {
		return
	}

	var targets []string
	for _, gs := range e.stations {
		if gs.Operational && gs.CanSee(sat) {
			targets = append(targets, gs.ID)
		}
	}

	e.txSeq++
	e.transmissions = append(e.transmissions, &SignalTransmission{
		ID:               fmt.Sprintf("tx-%d", e.txSeq),
		SatelliteID:      sat.ID,
		TargetStationIDs: targets,
		StartPosition:    sat.Position,
		StartedAt:        e.now,
		FrequencyGHz:     sat.FrequencyGHz,
		PowerDBW:         sat.TransmitPowerDBW,
	})
	e.metrics.TransmissionStarted()
}

// AddInterference creates an interference zone at the given location.
// It always succeeds; intensity is clamped to [0, 1].
func (e *Engine) AddInterference(typ InterferenceType, lonDeg, latDeg, intensity float64) *SignalInterference {
	e.zoneSeq++
	zone := &SignalInterference{
		ID:          fmt.Sprintf("intf-%d", e.zoneSeq),
		Type:        typ,
		LonDeg:      normalizeLonDeg(lonDeg),
		LatDeg:      clamp(latDeg, -90, 90),
		RadiusKm:    e.randRange(200, 1200),
		Intensity:   ClampIntensity(intensity),
		StartedAt:   e.now,
		Duration:    time.Duration(e.randRange(5, 30)) * time.Second,
		Description: fmt.Sprintf("%s interference", typ),
	}
	e.interference = append(e.interference, zone)
	return zone
}

// Reset drops every entity, resets the id counters, and rewinds the
// clock to the start time.
func (e *Engine) Reset() {
	e.satellites = nil
	e.stations = nil
	e.transmissions = nil
	e.interference = nil
	e.motionModels = make(map[string]MotionModel)
	e.satSeq, e.stationSeq, e.txSeq, e.zoneSeq = 0, 0, 0, 0
	e.now = e.startTime
}

// SeedHomeStations creates three ground stations near the home
// position of every human-controlled nation in the list, offset by
// small randomized longitude/latitude deltas.
func (e *Engine) SeedHomeStations(nations []Nation) {
	for _, n := range nations {
		if !n.IsHuman {
			continue
		}
		for i := 0; i < 3; i++ {
			e.BuildGroundStation(n.ID,
				n.HomeLon+e.randRange(-6, 6),
				n.HomeLat+e.randRange(-3, 3),
				fmt.Sprintf("%s Downlink %d", n.Name, i+1))
		}
	}
}

//
// ---------- Tick ----------
//

// Tick advances the simulation by deltaMs milliseconds: it
// re-propagates satellites and drops expired ones, ages and spawns
// interference, recomputes every station's received signals from
// same-owner visible satellites, maintains signal history, advances
// transmissions, and opportunistically starts new ones.
func (e *Engine) Tick(deltaMs float64) {
	started := time.Now()
	delta := time.Duration(deltaMs * float64(time.Millisecond))
	e.now = e.now.Add(delta)

	e.propagateSatellites()
	e.updateInterference()
	e.updateReceivedSignals()
	e.advanceTransmissions(delta)
	e.autoTransmit()

	e.metrics.SetEntityCounts(len(e.satellites), len(e.stations),
		len(e.transmissions), len(e.interference))
	e.metrics.ObserveTick(time.Since(started))
}

func (e *Engine) propagateSatellites() {
	kept := e.satellites[:0]
	for _, sat := range e.satellites {
		if sat.Expired(e.now) {
			delete(e.motionModels, sat.ID)
			e.metrics.SatelliteExpired()
			e.log.Debug(context.Background(), "satellite expired",
				logging.String("id", sat.ID))
			continue
		}
		e.motionModel(sat).UpdatePosition(e.now, sat)
		kept = append(kept, sat)
	}
	// Zero the tail so expired satellites are not pinned.
	for i := len(kept); i < len(e.satellites); i++ {
		e.satellites[i] = nil
	}
	e.satellites = kept
}

func (e *Engine) motionModel(sat *Satellite) MotionModel {
	model, ok := e.motionModels[sat.ID]
	if !ok {
		model = motionModelFor(sat)
		e.motionModels[sat.ID] = model
	}
	return model
}

func (e *Engine) updateInterference() {
	kept := e.interference[:0]
	for _, zone := range e.interference {
		if zone.Expired(e.now) {
			continue
		}
		kept = append(kept, zone)
	}
	for i := len(kept); i < len(e.interference); i++ {
		e.interference[i] = nil
	}
	e.interference = kept

	if e.cfg.InterferenceSpawnProbability > 0 &&
		e.rng.Float64() < e.cfg.InterferenceSpawnProbability {
		typ := interferenceTypes[e.rng.Intn(len(interferenceTypes))]
		zone := e.AddInterference(typ,
			e.randRange(-180, 180), e.randRange(-70, 70),
			e.randRange(0.2, 1.0))
		e.metrics.InterferenceSpawned()
		e.log.Debug(context.Background(), "interference spawned",
			logging.String("id", zone.ID),
			logging.String("type", string(zone.Type)))
	}
}

// updateReceivedSignals rebuilds every station's reception set from
// scratch. Ownership is enforced here and only here: a station
// receives exclusively from satellites sharing its owner, while the
// open VisibleSatellites query stays ownership-agnostic.
func (e *Engine) updateReceivedSignals() {
	for _, gs := range e.stations {
		if !gs.Operational {
			gs.ReceivedSignals = nil
			continue
		}

		var signals []ReceivedSignal
		for _, sat := range e.satellites {
			if !sat.Operational || sat.OwnerID != gs.OwnerID {
				continue
			}
			la := ComputeLookAngles(sat.Position, gs.LonDeg, gs.LatDeg)
			if la.ElevationDeg < gs.MinElevationDeg {
				continue
			}
			signals = append(signals, e.receivedSignal(sat, gs, la))
		}
		gs.ReceivedSignals = signals
		e.recordHistory(gs, signals)
	}
}

// receivedSignal runs the link budget for one visible satellite.
func (e *Engine) receivedSignal(sat *Satellite, gs *GroundStation, la LookAngles) ReceivedSignal {
	fspl := FreeSpacePathLossDB(la.DistanceKm, sat.FrequencyGHz)

	loss := 0.0
	for _, zone := range e.interference {
		loss += zone.LossAtDB(gs.LonDeg, gs.LatDeg)
	}
	// Transient blockage, uncorrelated with any zone.
	if e.cfg.ObstructionProbability > 0 &&
		e.rng.Float64() < e.cfg.ObstructionProbability {
		loss += e.cfg.ObstructionLossDB
	}

	power := ReceivedPowerDBm(sat.TransmitPowerDBW, sat.AntennaGainDBi,
		DishGainDB(gs.AntennaDiameterM), fspl, loss)
	quality := SignalQuality(power, gs.ReceiverSensitivityDBm)

	return ReceivedSignal{
		SatelliteID:       sat.ID,
		SignalStrengthDBm: power,
		Quality:           quality,
		DelaySeconds:      PropagationDelaySeconds(la.DistanceKm),
		DistanceKm:        la.DistanceKm,
		ElevationDeg:      la.ElevationDeg,
		AzimuthDeg:        la.AzimuthDeg,
		ReceivedAt:        e.now,
		Active:            quality > e.cfg.SignalLostThreshold,
		DataRateMbps:      DataRateMbps(e.cfg.BaseDataRateMbps, quality),
		BitErrorRate:      BitErrorRateForQuality(quality),
	}
}

// recordHistory appends new reception events, collapsing entries for
// the same satellite that arrive within the dedup window, and trims
// the ring to MaxHistorySize by dropping the oldest entries.
func (e *Engine) recordHistory(gs *GroundStation, signals []ReceivedSignal) {
	for _, sig := range signals {
		if e.recentHistoryEntry(gs, sig.SatelliteID) {
			continue
		}
		gs.SignalHistory = append(gs.SignalHistory, sig)
	}
	if over := len(gs.SignalHistory) - e.cfg.MaxHistorySize; over > 0 {
		gs.SignalHistory = append(gs.SignalHistory[:0:0], gs.SignalHistory[over:]...)
	}
}

func (e *Engine) recentHistoryEntry(gs *GroundStation, satID string) bool {
	for i := len(gs.SignalHistory) - 1; i >= 0; i-- {
		entry := gs.SignalHistory[i]
		if e.now.Sub(entry.ReceivedAt) >= e.cfg.HistoryDedupWindow {
			return false
		}
		if entry.SatelliteID == satID {
			return true
		}
	}
	return false
}

// advanceTransmissions moves each transmission's progress linearly
// against the visualization duration and drops completed ones. A
// transmission whose satellite has vanished is treated as completed.
func (e *Engine) advanceTransmissions(delta time.Duration) {
	step := float64(delta) / float64(e.cfg.TransmissionDuration)
	kept := e.transmissions[:0]
	for _, tx := range e.transmissions {
		if e.findSatellite(tx.SatelliteID) == nil {
			continue
		}
		tx.Progress += step
		tx.WavePhase = math.Mod(tx.WavePhase+step*4*math.Pi, 2*math.Pi)
		if tx.Progress >= 1 {
			tx.Progress = 1
			tx.Completed = true
			continue
		}
		kept = append(kept, tx)
	}
	for i := len(kept); i < len(e.transmissions); i++ {
		e.transmissions[i] = nil
	}
	e.transmissions = kept
}

// autoTransmit opportunistically starts a transmission for any
// operational satellite that has none in flight and can reach at
// least one same-owner operational station.
func (e *Engine) autoTransmit() {
	if e.cfg.AutoTransmitProbability <= 0 {
		return
	}
	for _, sat := range e.satellites {
		if !sat.Operational || e.hasActiveTransmission(sat.ID) {
			continue
		}
		if e.rng.Float64() >= e.cfg.AutoTransmitProbability {
			continue
		}
		if !e.hasVisibleOwnedStation(sat) {
			continue
		}
		e.TransmitSignal(sat.ID)
	}
}

func (e *Engine) hasActiveTransmission(satID string) bool {
	for _, tx := range e.transmissions {
		if tx.SatelliteID == satID && !tx.Completed {
			return true
		}
	}
	return false
}

func (e *Engine) hasVisibleOwnedStation(sat *Satellite) bool {
	for _, gs := range e.stations {
		if gs.Operational && gs.OwnerID == sat.OwnerID && gs.CanSee(sat) {
			return true
		}
	}
	return false
}

//
// ---------- Queries ----------
//

// VisibleSatellites returns every operational satellite above the
// station's minimum elevation, regardless of owner. This is the open
// "what can geometrically be seen" query; reception (updateReceivedSignals)
// stays ownership-restricted. The two are deliberately different.
func (e *Engine) VisibleSatellites(stationID string) []*Satellite {
	gs := e.findStation(stationID)
	if gs == nil {
		return nil
	}
	var out []*Satellite
	for _, sat := range e.satellites {
		if sat.Operational && gs.CanSee(sat) {
			out = append(out, sat)
		}
	}
	return out
}

// NationSignalStatus is the per-nation aggregate returned by
// Engine.NationSignalStatus.
type NationSignalStatus struct {
	Satellites     int     `json:"Satellites"`
	GroundStations int     `json:"GroundStations"`
	ActiveSignals  int     `json:"ActiveSignals"`
	AverageQuality float64 `json:"AverageQuality"`
}

// NationSignalStatus aggregates a nation's current space segment and
// reception state. It is recomputed on every call; nothing is cached.
func (e *Engine) NationSignalStatus(nationID string) NationSignalStatus {
	var status NationSignalStatus
	for _, sat := range e.satellites {
		if sat.OwnerID == nationID {
			status.Satellites++
		}
	}
	qualitySum := 0.0
	for _, gs := range e.stations {
		if gs.OwnerID != nationID {
			continue
		}
		status.GroundStations++
		for _, sig := range gs.ReceivedSignals {
			if sig.Active {
				status.ActiveSignals++
				qualitySum += sig.Quality
			}
		}
	}
	if status.ActiveSignals > 0 {
		status.AverageQuality = qualitySum / float64(status.ActiveSignals)
	}
	return status
}

// Snapshot is a read-only copy of the full simulation state taken at
// tick granularity. Renderers and other consumers must treat it as
// immutable; mutating it has no effect on the engine.
type Snapshot struct {
	Time           time.Time            `json:"Time"`
	Satellites     []Satellite          `json:"Satellites"`
	GroundStations []GroundStation      `json:"GroundStations"`
	Transmissions  []SignalTransmission `json:"Transmissions"`
	Interference   []SignalInterference `json:"Interference"`
}

// Snapshot deep-copies the current state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Time:           e.now,
		Satellites:     make([]Satellite, 0, len(e.satellites)),
		GroundStations: make([]GroundStation, 0, len(e.stations)),
		Transmissions:  make([]SignalTransmission, 0, len(e.transmissions)),
		Interference:   make([]SignalInterference, 0, len(e.interference)),
	}
	for _, sat := range e.satellites {
		snap.Satellites = append(snap.Satellites, *sat)
	}
	for _, gs := range e.stations {
		cp := *gs
		cp.ReceivedSignals = append([]ReceivedSignal(nil), gs.ReceivedSignals...)
		cp.SignalHistory = append([]ReceivedSignal(nil), gs.SignalHistory...)
		snap.GroundStations = append(snap.GroundStations, cp)
	}
	for _, tx := range e.transmissions {
		cp := *tx
		cp.TargetStationIDs = append([]string(nil), tx.TargetStationIDs...)
		snap.Transmissions = append(snap.Transmissions, cp)
	}
	for _, zone := range e.interference {
		snap.Interference = append(snap.Interference, *zone)
	}
	return snap
}

//
// ---------- Lookups & randomized bands ----------
//

func (e *Engine) findSatellite(id string) *Satellite {
	for _, sat := range e.satellites {
		if sat.ID == id {
			return sat
		}
	}
	return nil
}

func (e *Engine) findStation(id string) *GroundStation {
	for _, gs := range e.stations {
		if gs.ID == id {
			return gs
		}
	}
	return nil
}

// elementsForType generates orbital elements in the band documented
// for each satellite type:
//
//	communication   GEO (incl 0-5°) or MEO ~20000 km (incl 10-30°)
//	reconnaissance  LEO 400-800 km, near-polar (incl 85-98°)
//	navigation      MEO 19000-23000 km (incl 50-60°)
//	weather         GEO (incl 0-5°) or LEO 600-900 km (incl 95-100°)
//
// Eccentricity stays below 0.01 to keep the fixed-iteration Kepler
// solver honest.
func (e *Engine) elementsForType(typ SatelliteType) OrbitalElements {
	var altKm, inclDeg float64
	switch typ {
	case SatelliteCommunication:
		if e.rng.Float64() < 0.5 {
			altKm, inclDeg = 35786, e.randRange(0, 5)
		} else {
			altKm, inclDeg = e.randRange(18000, 22000), e.randRange(10, 30)
		}
	case SatelliteReconnaissance:
		altKm, inclDeg = e.randRange(400, 800), e.randRange(85, 98)
	case SatelliteNavigation:
		altKm, inclDeg = e.randRange(19000, 23000), e.randRange(50, 60)
	case SatelliteWeather:
		if e.rng.Float64() < 0.5 {
			altKm, inclDeg = 35786, e.randRange(0, 5)
		} else {
			altKm, inclDeg = e.randRange(600, 900), e.randRange(95, 100)
		}
	default:
		altKm, inclDeg = e.randRange(500, 2000), e.randRange(0, 90)
	}

	return OrbitalElements{
		SemiMajorAxisKm: EarthRadiusKm + altKm,
		Eccentricity:    e.rng.Float64() * 0.01,
		InclinationDeg:  inclDeg,
		RAANDeg:         e.randRange(0, 360),
		ArgPeriapsisDeg: e.randRange(0, 360),
		MeanAnomalyDeg:  e.randRange(0, 360),
		Epoch:           e.now,
	}
}

// frequencyForType picks a carrier in the nominal band per type:
// Ku for communication, X for reconnaissance, L for navigation,
// S for weather.
func (e *Engine) frequencyForType(typ SatelliteType) float64 {
	switch typ {
	case SatelliteCommunication:
		return e.randRange(10.7, 14.5)
	case SatelliteReconnaissance:
		return e.randRange(7.0, 9.0)
	case SatelliteNavigation:
		return e.randRange(1.2, 1.6)
	case SatelliteWeather:
		return e.randRange(1.7, 2.2)
	default:
		return e.randRange(4.0, 8.0)
	}
}

func (e *Engine) randRange(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}
