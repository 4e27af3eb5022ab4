package protocol

import (
	"github.com/wprsproj/wprs/wire"
	"github.com/wprsproj/wprs/wprserr"
)

func writeTransferData(w *wire.Writer, d TransferData) error {
	if err := w.WriteU8(uint8(d.Source)); err != nil {
		return err
	}
	return w.WriteBytes(d.Bytes)
}

func readTransferData(r *wire.Reader) (TransferData, error) {
	srcByte, err := r.U8()
	if err != nil {
		return TransferData{}, err
	}
	b, err := r.Bytes()
	if err != nil {
		return TransferData{}, err
	}
	return TransferData{Source: DataSource(srcByte), Bytes: b}, nil
}

const (
	sourceRequestSend      = 0
	sourceRequestCancelled = 1
)

func writeSourceRequestKind(w *wire.Writer, k SourceRequestKind) error {
	switch v := k.(type) {
	case SourceRequestSend:
		if err := w.WriteU8(sourceRequestSend); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(v.Source)); err != nil {
			return err
		}
		return w.WriteString(v.MimeType)
	case SourceRequestCancelled:
		if err := w.WriteU8(sourceRequestCancelled); err != nil {
			return err
		}
		return w.WriteU8(uint8(v.Source))
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown SourceRequestKind %T", k)
	}
}

func readSourceRequestKind(r *wire.Reader) (SourceRequestKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case sourceRequestSend:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		mime, err := r.String()
		if err != nil {
			return nil, err
		}
		return SourceRequestSend{Source: DataSource(srcByte), MimeType: mime}, nil
	case sourceRequestCancelled:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		return SourceRequestCancelled{Source: DataSource(srcByte)}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown SourceRequestKind tag %d", tag)
	}
}

const (
	sourceEventOffer     = 0
	sourceEventAccepted  = 1
	sourceEventCancelled = 2
)

func writeSourceEventKind(w *wire.Writer, k SourceEventKind) error {
	switch v := k.(type) {
	case SourceEventOffer:
		if err := w.WriteU8(sourceEventOffer); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(v.Source)); err != nil {
			return err
		}
		return writeStringList(w, v.MimeTypes)
	case SourceEventAccepted:
		if err := w.WriteU8(sourceEventAccepted); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(v.Source)); err != nil {
			return err
		}
		return writeOptionalString(w, v.MimeType)
	case SourceEventCancelled:
		if err := w.WriteU8(sourceEventCancelled); err != nil {
			return err
		}
		return w.WriteU8(uint8(v.Source))
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown SourceEventKind %T", k)
	}
}

func readSourceEventKind(r *wire.Reader) (SourceEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case sourceEventOffer:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		mimes, err := readStringList(r)
		if err != nil {
			return nil, err
		}
		return SourceEventOffer{Source: DataSource(srcByte), MimeTypes: mimes}, nil
	case sourceEventAccepted:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		mime, err := readOptionalString(r)
		if err != nil {
			return nil, err
		}
		return SourceEventAccepted{Source: DataSource(srcByte), MimeType: mime}, nil
	case sourceEventCancelled:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		return SourceEventCancelled{Source: DataSource(srcByte)}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown SourceEventKind tag %d", tag)
	}
}

const (
	destRequestOffer     = 0
	destRequestCancelled = 1
)

func writeDestinationRequestKind(w *wire.Writer, k DestinationRequestKind) error {
	switch v := k.(type) {
	case DestinationRequestOffer:
		if err := w.WriteU8(destRequestOffer); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(v.Source)); err != nil {
			return err
		}
		return writeStringList(w, v.MimeTypes)
	case DestinationRequestCancelled:
		if err := w.WriteU8(destRequestCancelled); err != nil {
			return err
		}
		return w.WriteU8(uint8(v.Source))
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown DestinationRequestKind %T", k)
	}
}

func readDestinationRequestKind(r *wire.Reader) (DestinationRequestKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case destRequestOffer:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		mimes, err := readStringList(r)
		if err != nil {
			return nil, err
		}
		return DestinationRequestOffer{Source: DataSource(srcByte), MimeTypes: mimes}, nil
	case destRequestCancelled:
		srcByte, err := r.U8()
		if err != nil {
			return nil, err
		}
		return DestinationRequestCancelled{Source: DataSource(srcByte)}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown DestinationRequestKind tag %d", tag)
	}
}

const (
	destEventAccept  = 0
	destEventReceive = 1
)

func writeDestinationEventKind(w *wire.Writer, k DestinationEventKind) error {
	switch v := k.(type) {
	case DestinationEventAccept:
		if err := w.WriteU8(destEventAccept); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(v.Source)); err != nil {
			return err
		}
		return w.WriteString(v.MimeType)
	case DestinationEventReceive:
		if err := w.WriteU8(destEventReceive); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(v.Source)); err != nil {
			return err
		}
		return w.WriteString(v.MimeType)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown DestinationEventKind %T", k)
	}
}

func readDestinationEventKind(r *wire.Reader) (DestinationEventKind, error) {
	tag, err := r.U8()
	if err != nil {
		return nil, err
	}
	srcByte, err := r.U8()
	if err != nil {
		return nil, err
	}
	mime, err := r.String()
	if err != nil {
		return nil, err
	}
	switch tag {
	case destEventAccept:
		return DestinationEventAccept{Source: DataSource(srcByte), MimeType: mime}, nil
	case destEventReceive:
		return DestinationEventReceive{Source: DataSource(srcByte), MimeType: mime}, nil
	default:
		return nil, wprserr.Wrap(wprserr.BadData, "protocol: unknown DestinationEventKind tag %d", tag)
	}
}

const (
	dataRequestSource      = 0
	dataRequestDestination = 1
	dataRequestTransfer    = 2
)

func writeDataRequest(w *wire.Writer, d DataRequest) error {
	switch v := d.Kind.(type) {
	case DataRequestSource:
		if err := w.WriteU8(dataRequestSource); err != nil {
			return err
		}
		return writeSourceRequestKind(w, v.Kind)
	case DataRequestDestination:
		if err := w.WriteU8(dataRequestDestination); err != nil {
			return err
		}
		return writeDestinationRequestKind(w, v.Kind)
	case DataRequestTransfer:
		if err := w.WriteU8(dataRequestTransfer); err != nil {
			return err
		}
		return writeTransferData(w, v.Data)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown DataRequestKind %T", d.Kind)
	}
}

func readDataRequest(r *wire.Reader) (DataRequest, error) {
	tag, err := r.U8()
	if err != nil {
		return DataRequest{}, err
	}
	switch tag {
	case dataRequestSource:
		k, err := readSourceRequestKind(r)
		if err != nil {
			return DataRequest{}, err
		}
		return DataRequest{Kind: DataRequestSource{Kind: k}}, nil
	case dataRequestDestination:
		k, err := readDestinationRequestKind(r)
		if err != nil {
			return DataRequest{}, err
		}
		return DataRequest{Kind: DataRequestDestination{Kind: k}}, nil
	case dataRequestTransfer:
		d, err := readTransferData(r)
		if err != nil {
			return DataRequest{}, err
		}
		return DataRequest{Kind: DataRequestTransfer{Data: d}}, nil
	default:
		return DataRequest{}, wprserr.Wrap(wprserr.BadData, "protocol: unknown DataRequest tag %d", tag)
	}
}

const (
	dataEventSource      = 0
	dataEventDestination = 1
	dataEventTransfer    = 2
)

func writeDataEvent(w *wire.Writer, d DataEvent) error {
	switch v := d.Kind.(type) {
	case DataEventSource:
		if err := w.WriteU8(dataEventSource); err != nil {
			return err
		}
		return writeSourceEventKind(w, v.Kind)
	case DataEventDestination:
		if err := w.WriteU8(dataEventDestination); err != nil {
			return err
		}
		return writeDestinationEventKind(w, v.Kind)
	case DataEventTransfer:
		if err := w.WriteU8(dataEventTransfer); err != nil {
			return err
		}
		return writeTransferData(w, v.Data)
	default:
		return wprserr.Wrap(wprserr.BadData, "protocol: unknown DataEventKind %T", d.Kind)
	}
}

func readDataEvent(r *wire.Reader) (DataEvent, error) {
	tag, err := r.U8()
	if err != nil {
		return DataEvent{}, err
	}
	switch tag {
	case dataEventSource:
		k, err := readSourceEventKind(r)
		if err != nil {
			return DataEvent{}, err
		}
		return DataEvent{Kind: DataEventSource{Kind: k}}, nil
	case dataEventDestination:
		k, err := readDestinationEventKind(r)
		if err != nil {
			return DataEvent{}, err
		}
		return DataEvent{Kind: DataEventDestination{Kind: k}}, nil
	case dataEventTransfer:
		d, err := readTransferData(r)
		if err != nil {
			return DataEvent{}, err
		}
		return DataEvent{Kind: DataEventTransfer{Data: d}}, nil
	default:
		return DataEvent{}, wprserr.Wrap(wprserr.BadData, "protocol: unknown DataEvent tag %d", tag)
	}
}
