// This file is part of nugopher.
//
// nugopher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nugopher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nugopher.  If not, see <https://www.gnu.org/licenses/>.

package cartridgeloader

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/jetsetilly/nugopher/curated"
)

// Sentinel error patterns returned by Load().
const (
	LoadError       = "cartridgeloader: %v"
	UnexpectedHash  = "cartridgeloader: unexpected hash value"
	UnknownROMOrder = "cartridgeloader: %s: unrecognised ROM byte order"
)

// Loader is used to specify the data to load and the format of that data.
type Loader struct {
	// filename of data to load. can be a http or https URL
	Filename string

	// FormatAuto indicates that the format should be detected from the data
	Format Format

	// expected hash of the loaded data. empty string indicates that the hash
	// is unknown and need not be validated. after a load operation the value
	// will be the hash of the loaded data
	//
	// for ROM data the hash is of the file as it is on disk, before any byte
	// order conversion
	Hash string

	// copy of the loaded data
	Data []byte

	// does the Data field consist of sound data (WAV or MP3)
	IsSoundData bool
}

// NewLoader is the preferred method of initialisation for the Loader type.
//
// The format argument will be used to set the Format field, unless the
// argument is either "AUTO" or the empty string. In which case the file
// extension is used to set the field.
//
// Alphabetic characters in file extensions can be in upper or lower case or a
// mixture of both.
func NewLoader(filename string, format string) Loader {
	cl := Loader{
		Filename: filename,
		Format:   FormatAuto,
	}

	format = strings.TrimSpace(strings.ToUpper(format))
	if format != string(FormatAuto) && format != "" {
		cl.Format = Format(format)
	} else {
		switch strings.ToUpper(path.Ext(filename)) {
		case ".Z64":
			cl.Format = FormatZ64
		case ".V64":
			cl.Format = FormatV64
		case ".N64":
			cl.Format = FormatN64
		case ".GB", ".GBC":
			cl.Format = FormatGB
		case ".WAV":
			cl.Format = FormatWAV
		case ".MP3":
			cl.Format = FormatMP3
		}
	}

	cl.IsSoundData = cl.Format == FormatWAV || cl.Format == FormatMP3

	return cl
}

// ShortName returns a shortened version of the Loader filename.
func (cl Loader) ShortName() string {
	shortName := path.Base(cl.Filename)
	shortName = strings.TrimSuffix(shortName, path.Ext(cl.Filename))
	return shortName
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

// Load the data. Loader filenames with a valid scheme will use that method to
// load the data. Currently supported schemes are HTTP and local files.
func (cl *Loader) Load(ctx context.Context) error {
	if len(cl.Data) > 0 {
		return nil
	}

	scheme := "file"

	u, err := url.Parse(cl.Filename)
	if err == nil {
		scheme = u.Scheme
	}

	var data []byte

	switch scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.Filename, nil)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return curated.Errorf(LoadError, resp.Status)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}

	case "file", "":
		data, err = os.ReadFile(cl.Filename)
		if err != nil {
			return curated.Errorf(LoadError, err)
		}

	default:
		return curated.Errorf(LoadError, fmt.Sprintf("unsupported URL scheme (%s)", scheme))
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf(UnexpectedHash)
	}
	cl.Hash = hash

	if !cl.IsSoundData {
		detected := detectFormat(data)
		if cl.Format == FormatAuto || cl.Format.IsROM() {
			if detected != FormatAuto {
				cl.Format = detected
			}
		}
		if cl.Format == FormatAuto {
			return curated.Errorf(UnknownROMOrder, cl.ShortName())
		}
		normalise(data, cl.Format)
	}

	cl.Data = data

	return nil
}
