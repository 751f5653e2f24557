/*------------------------------------------------------------------
 *
 * Purpose:	Core signal-processing and framing engine for a software
 *		FSK modem: Bell 103, Bell 202, ITU-T V.21, and RTTY
 *		conventions over a mono audio channel.
 *
 *		Package rf103 owns the receive path (tone analysis, frame
 *		location, carrier acquisition, Baudot/ASCII decoding) and
 *		the transmit path (tone synthesis and framing) that share
 *		a single FSK plan and framebits codec.
 *
 *---------------------------------------------------------------*/

package rf103
