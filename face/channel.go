package face

import "github.com/ndnself/forwarder/defn"

// FaceParams configures a face minted by a Channel.
type FaceParams struct {
	Persistency defn.Persistency
}

// DefaultFaceParams are the "other knobs at defaults" referenced by the
// multi-access promotion protocol: only persistency is overridden.
func DefaultFaceParams(persistency defn.Persistency) FaceParams {
	return FaceParams{Persistency: persistency}
}

// Channel mints new unicast faces on demand, e.g. a multicast face's
// underlying multi-access medium can be asked to open a unicast face to one
// specific peer. Connect is asynchronous (§4.7/§6): callbacks are never
// invoked synchronously in-line and may run on any goroutine, so a caller
// posts whatever follow-up work it needs back onto its own executor.
type Channel interface {
	Connect(endpoint defn.EndpointId, params FaceParams, onSuccess func(Face), onFailure func(err error))
}
