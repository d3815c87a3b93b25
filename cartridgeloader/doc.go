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

// Package cartridgeloader is used to specify the data that is to be attached
// to the machine: the cartridge ROM image for the PI manager, Game Boy
// cartridge images for the Game Boy pak and sound files for the audio
// manager.
//
// When the data is ready to be loaded, the Load() function should be used. The
// Load() function handles loading of data from different sources. Currently
// local-files and data over HTTP are supported.
//
// The simplest instance of the Loader type:
//
//	cl := cartridgeloader.Loader{
//		Filename: "roms/demo.z64",
//	}
//
// It is preferred however that the NewLoader() function is used. The
// NewLoader() function will set the Format field automatically according to
// the filename extension.
//
// Cartridge ROM images come in three byte orders. After loading, images in
// the byte-swapped (V64) and little-endian (N64) orders are converted to the
// big-endian (Z64) order, which is the order of the real cartridge bus.
package cartridgeloader
